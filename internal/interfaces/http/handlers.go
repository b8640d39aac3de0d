package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/billedapp/billed/internal/bill"
	"github.com/billedapp/billed/internal/bills"
	"github.com/billedapp/billed/internal/export"
	"github.com/billedapp/billed/internal/ocr"
	"github.com/billedapp/billed/internal/session"
	"github.com/billedapp/billed/internal/submission"
)

// userContextKey is the gin context key the session user is stored under.
const userContextKey = "session_user"

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ReceiptUploadResponse is the JSON answer to a receipt selection. Accepted
// mirrors the transient error indicator: false means the wrong-file-type
// indicator is showing.
type ReceiptUploadResponse struct {
	Accepted   bool       `json:"accepted"`
	FileName   string     `json:"fileName,omitempty"`
	Suggestion ocr.Fields `json:"suggestion"`
}

// Handlers contains all HTTP request handlers.
type Handlers struct {
	repo      bill.Repository
	storage   bill.ReceiptStorage
	exporter  *export.ExcelExporter
	extractor ocr.Extractor
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// sessionState is the per-user server-side state: the submission controller
// with its cached file reference, and the navigator its redirects go
// through.
type sessionState struct {
	controller *submission.Controller
	nav        *navigator
}

// navigator forwards controller navigation to the current request's
// redirect. The controller navigates at most once per request; late
// fire-and-forget navigations from a finished request are dropped.
type navigator struct {
	mu   sync.Mutex
	sink func(route string)
}

func (n *navigator) Navigate(route string) {
	n.mu.Lock()
	sink := n.sink
	n.mu.Unlock()
	if sink != nil {
		sink(route)
	}
}

func (n *navigator) setSink(sink func(route string)) {
	n.mu.Lock()
	n.sink = sink
	n.mu.Unlock()
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	repo bill.Repository,
	storage bill.ReceiptStorage,
	exporter *export.ExcelExporter,
	extractor ocr.Extractor,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		repo:      repo,
		storage:   storage,
		exporter:  exporter,
		extractor: extractor,
		logger:    logger,
		sessions:  make(map[string]*sessionState),
	}
}

// Register wires all routes onto the router.
func (h *Handlers) Register(r *gin.Engine, uploadDir, uploadURL string) {
	r.GET("/health", h.HealthCheck)
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, submission.BillsRoute)
	})
	r.Static(uploadURL, uploadDir)

	authed := r.Group("/", h.RequireSession)
	authed.GET("/bills", h.ShowBills)
	authed.GET("/bills/new", h.ShowNewBill)
	authed.POST("/bills/new/receipt", h.UploadReceipt)
	authed.POST("/bills", h.SubmitBill)

	api := r.Group("/api/v1", h.RequireSession)
	api.GET("/bills", h.ListBills)
	api.GET("/bills/export", h.ExportBills)
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "billed",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// RequireSession reads the signed-in user from the "user" cookie and aborts
// with 401 when it is missing or malformed.
func (h *Handlers) RequireSession(c *gin.Context) {
	raw, err := c.Cookie(session.UserKey)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Error: "not signed in"})
		return
	}
	user, err := session.ParseUser(raw)
	if err != nil {
		h.logger.Warn("Rejected malformed session cookie", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Error: "invalid session"})
		return
	}
	c.Set(userContextKey, user)
	c.Next()
}

func currentUser(c *gin.Context) session.User {
	return c.MustGet(userContextKey).(session.User)
}

// sessionFor returns the submission state for a user, creating it on first
// use. The controller lives as long as the session so the cached receipt
// reference survives between the upload request and the submit request.
func (h *Handlers) sessionFor(user session.User) *sessionState {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.sessions[user.Email]
	if !ok {
		nav := &navigator{}
		st = &sessionState{
			nav: nav,
			controller: submission.NewController(
				h.repo, h.storage, user, nav.Navigate,
				submission.NewErrorIndicator(), h.logger,
			),
		}
		h.sessions[user.Email] = st
	}
	return st
}

// ShowBills handles GET /bills: fetches the list and renders it sorted. A
// fetch failure renders the error view carrying the literal error message.
func (h *Handlers) ShowBills(c *gin.Context) {
	records, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch bill list", zap.Error(err))
		c.HTML(http.StatusOK, "bills.html", bills.PresentError(err.Error()))
		return
	}

	view, err := bills.Present(records)
	if err != nil {
		h.logger.Error("Failed to render bill list", zap.Error(err))
		c.HTML(http.StatusOK, "bills.html", bills.PresentError(err.Error()))
		return
	}
	c.HTML(http.StatusOK, "bills.html", view)
}

// newBillPage is the template payload for the new-bill form.
type newBillPage struct {
	ExpenseTypes   []string
	ErrorFileType  bool
	CachedFileName string
}

// ShowNewBill handles GET /bills/new.
func (h *Handlers) ShowNewBill(c *gin.Context) {
	st := h.sessionFor(currentUser(c))

	page := newBillPage{
		ExpenseTypes:  bill.ExpenseTypes,
		ErrorFileType: st.controller.Indicator().Visible(),
	}
	if _, name := st.controller.CachedFile(); name != nil {
		page.CachedFileName = *name
	}
	c.HTML(http.StatusOK, "new-bill.html", page)
}

// UploadReceipt handles POST /bills/new/receipt. The declared media type of
// the multipart file part is validated; a rejected file answers
// accepted=false while the transient indicator shows server-side. The
// upload itself resolves asynchronously; persistence outlives the request,
// so it runs on a background context.
func (h *Handlers) UploadReceipt(c *gin.Context) {
	st := h.sessionFor(currentUser(c))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: "missing file"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: "unreadable file"})
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: "unreadable file"})
		return
	}

	sel := submission.FileSelection{
		Value:        fileHeader.Filename,
		DeclaredType: fileHeader.Header.Get("Content-Type"),
		Content:      content,
	}
	if !st.controller.HandleChangeFile(context.Background(), sel) {
		c.JSON(http.StatusOK, ReceiptUploadResponse{Accepted: false})
		return
	}

	fields, err := h.extractor.Extract(c.Request.Context(), content)
	if err != nil {
		h.logger.Warn("Receipt field extraction failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, ReceiptUploadResponse{
		Accepted:   true,
		FileName:   (submission.FileValidator{}).DisplayName(fileHeader.Filename),
		Suggestion: fields,
	})
}

// SubmitBill handles POST /bills. The form snapshot is read once, handed to
// the controller, and the response is the redirect the controller's
// navigation produces. Persistence is fire-and-forget: the redirect does
// not wait for the create to settle.
func (h *Handlers) SubmitBill(c *gin.Context) {
	st := h.sessionFor(currentUser(c))

	snap := bill.FormSnapshot{
		Type:       c.PostForm("expense-type"),
		Name:       c.PostForm("expense-name"),
		Amount:     c.PostForm("amount"),
		Date:       c.PostForm("datepicker"),
		Vat:        c.PostForm("vat"),
		Pct:        c.PostForm("pct"),
		Commentary: c.PostForm("commentary"),
	}

	var once sync.Once
	st.nav.setSink(func(route string) {
		once.Do(func() {
			c.Redirect(http.StatusSeeOther, route)
		})
	})

	st.controller.HandleSubmit(context.Background(), snap)

	// The submit itself navigated synchronously above. Drop the sink so
	// the fire-and-forget create-success navigation never touches this
	// request's context after the handler returns.
	st.nav.setSink(nil)
}

// ListBills handles GET /api/v1/bills
func (h *Handlers) ListBills(c *gin.Context) {
	records, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: records})
}

// ExportBills handles GET /api/v1/bills/export
func (h *Handlers) ExportBills(c *gin.Context) {
	records, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, records); err != nil {
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}

	fileName := fmt.Sprintf("notes-de-frais-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
