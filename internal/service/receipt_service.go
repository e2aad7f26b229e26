package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
	"github.com/campus-mailroom/mailroom-api/pkg/storage"
)

type receiptStore interface {
	SaveStream(name string, r io.Reader) (int64, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
}

type receiptSigner interface {
	Generate(owner, relPath string) (string, time.Time, error)
	Parse(token string) (owner, relPath string, expiresAt time.Time, err error)
}

type receiptOrderRepository interface {
	FindByID(ctx context.Context, id string) (*models.Order, error)
	AppendReceipt(ctx context.Context, id, name string) error
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ReceiptService stores purchase receipts and hands out signed download links.
type ReceiptService struct {
	orders  receiptOrderRepository
	store   receiptStore
	signer  receiptSigner
	maxSize int64
	logger  *zap.Logger
}

// NewReceiptService constructs a ReceiptService. maxSize <= 0 defaults to 10 MiB.
func NewReceiptService(orders receiptOrderRepository, store receiptStore, signer receiptSigner, maxSize int64, logger *zap.Logger) *ReceiptService {
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{orders: orders, store: store, signer: signer, maxSize: maxSize, logger: logger}
}

// Upload stores r as a receipt of the order and records it on the order.
func (s *ReceiptService) Upload(ctx context.Context, orderID, filename string, r io.Reader) (*models.Order, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, storeError(err, "Order", "Failed to upload receipt")
	}

	name := path.Join(orderID, uuid.NewString()+"-"+sanitizeFilename(filename))
	written, err := s.store.SaveStream(name, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		s.logger.Error("store receipt failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, appErrors.Internal(err, "Failed to store receipt")
	}
	if written > s.maxSize {
		s.discard(name)
		return nil, appErrors.Clone(appErrors.ErrTooLarge, fmt.Sprintf("Receipt exceeds %d bytes", s.maxSize))
	}
	if written == 0 {
		s.discard(name)
		return nil, appErrors.Clone(appErrors.ErrValidation, "Receipt file is empty")
	}

	if err := s.orders.AppendReceipt(ctx, orderID, name); err != nil {
		s.discard(name)
		return nil, storeError(err, "Order", "Failed to record receipt")
	}
	return s.orders.FindByID(ctx, orderID)
}

// SignedURL issues a time-limited token for the index-th receipt of an order.
func (s *ReceiptService) SignedURL(ctx context.Context, orderID string, index int) (string, time.Time, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return "", time.Time{}, storeError(err, "Order", "Failed to sign receipt link")
	}
	if index < 0 || index >= len(order.Receipts) {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrNotFound, "Receipt not found")
	}
	token, expiresAt, err := s.signer.Generate(order.ID, order.Receipts[index])
	if err != nil {
		return "", time.Time{}, appErrors.Internal(err, "Failed to sign receipt link")
	}
	return token, expiresAt, nil
}

// Open resolves a signed token to the stored file and its download name. The
// caller closes the file.
func (s *ReceiptService) Open(ctx context.Context, token string) (*os.File, string, error) {
	orderID, name, _, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "Receipt link expired")
		}
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "Invalid receipt link")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, "", storeError(err, "Receipt", "Failed to open receipt")
	}
	if !containsString(order.Receipts, name) {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "Receipt not found")
	}

	file, err := s.store.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "Receipt not found")
		}
		return nil, "", appErrors.Internal(err, "Failed to open receipt")
	}
	return file, downloadName(name), nil
}

// RemoveOrderReceipts deletes the stored files of a deleted order and then its
// directory. Failures are logged.
func (s *ReceiptService) RemoveOrderReceipts(orderID string, names []string) {
	for _, name := range names {
		s.discard(name)
	}
	s.discard(orderID)
}

func (s *ReceiptService) discard(name string) {
	if err := s.store.Delete(name); err != nil {
		s.logger.Warn("discard receipt failed", zap.String("name", name), zap.Error(err))
	}
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return "receipt"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}

// downloadName strips the directory and the uniqueness prefix.
func downloadName(stored string) string {
	base := path.Base(stored)
	if len(base) > 37 && base[36] == '-' {
		return base[37:]
	}
	return base
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
