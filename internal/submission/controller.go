package submission

import (
	"context"
	"path"
	"sync"

	"go.uber.org/zap"

	"github.com/billedapp/billed/internal/bill"
	"github.com/billedapp/billed/internal/session"
)

// BillsRoute is the route the controller navigates to after submit.
const BillsRoute = "/bills"

// receiptFolder is the storage prefix for uploaded receipts.
const receiptFolder = "justificatifs"

// FileSelection is the ephemeral state of a chosen receipt file: the form
// value (possibly a backslash path), the declared media type, and the raw
// bytes.
type FileSelection struct {
	Value        string
	DeclaredType string
	Content      []byte
}

// Controller owns a single in-flight bill submission. File selections are
// validated and uploaded as they happen; the resolved URL and name are
// cached on the controller and merged into the record at submit time.
//
// Uploads are fire-and-forget: a new selection during an in-flight upload
// is not blocked, so the later-resolving upload determines the cached file
// reference. Submit likewise navigates before persistence is guaranteed.
type Controller struct {
	repo       bill.Repository
	storage    bill.ReceiptStorage
	user       session.User
	onNavigate func(route string)
	validator  FileValidator
	indicator  *ErrorIndicator
	logger     *zap.Logger

	mu       sync.Mutex
	fileURL  *string
	fileName *string
}

// NewController creates a submission controller for one signed-in user.
// repo and storage may be nil in preview-only contexts: validation and
// naming still run, but no persistence call is ever made.
func NewController(
	repo bill.Repository,
	storage bill.ReceiptStorage,
	user session.User,
	onNavigate func(route string),
	indicator *ErrorIndicator,
	logger *zap.Logger,
) *Controller {
	if indicator == nil {
		indicator = NewErrorIndicator()
	}
	return &Controller{
		repo:       repo,
		storage:    storage,
		user:       user,
		onNavigate: onNavigate,
		indicator:  indicator,
		logger:     logger,
	}
}

// Indicator exposes the wrong-file-type indicator for the view layer.
func (c *Controller) Indicator() *ErrorIndicator { return c.indicator }

// HandleChangeFile gates a newly selected receipt. A rejected selection
// shows the transient indicator and leaves any previously cached file
// reference untouched. An accepted selection hides the indicator and, when
// storage is configured, starts an async upload whose resolution caches the
// file URL and name.
//
// Returns whether the selection was accepted.
func (c *Controller) HandleChangeFile(ctx context.Context, sel FileSelection) bool {
	if !c.validator.Accepts(sel.DeclaredType) {
		c.indicator.Show()
		return false
	}

	c.indicator.Hide()
	fileName := c.validator.DisplayName(sel.Value)

	if c.storage == nil {
		return true
	}

	go func() {
		url, err := c.storage.Upload(ctx, path.Join(receiptFolder, fileName), sel.Content)
		if err != nil {
			c.logger.Error("receipt upload failed",
				zap.String("file_name", fileName),
				zap.Error(err))
			return
		}
		c.mu.Lock()
		c.fileURL = &url
		c.fileName = &fileName
		c.mu.Unlock()
	}()

	return true
}

// HandleSubmit assembles the pending record from the form snapshot and the
// cached file reference, hands it to createBill, and navigates to the bill
// list immediately without waiting for persistence. The cached reference
// may still be nil when the upload has not resolved; that race is accepted.
func (c *Controller) HandleSubmit(ctx context.Context, form bill.FormSnapshot) {
	c.mu.Lock()
	fileURL, fileName := c.fileURL, c.fileName
	c.mu.Unlock()

	record := form.Build(c.user.Email, fileURL, fileName)
	c.createBill(ctx, record)
	c.onNavigate(BillsRoute)
}

// createBill persists the record when a repository is configured. A
// persistence failure is swallowed here: navigation already happened, so
// the error is only logged. Surfacing it is the caller's concern.
func (c *Controller) createBill(ctx context.Context, record bill.Bill) {
	if c.repo == nil {
		return
	}
	go func() {
		if err := c.repo.Create(ctx, &record); err != nil {
			c.logger.Error("bill creation failed",
				zap.String("email", record.Email),
				zap.Error(err))
			return
		}
		c.onNavigate(BillsRoute)
	}()
}

// CachedFile returns the currently cached upload result. Both values are
// nil until an upload has resolved.
func (c *Controller) CachedFile() (fileURL, fileName *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileURL, c.fileName
}
