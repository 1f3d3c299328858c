// Package controller holds the client page state: the loaded collection, the
// search filter, which panel is open, and the notification banner. It is
// driven synchronously from the Bubble Tea update loop.
package controller

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/zjrosen/clientbook/internal/client"
	"github.com/zjrosen/clientbook/internal/log"
	"github.com/zjrosen/clientbook/internal/store"
)

// Mode is the open panel. Panels are mutually exclusive.
type Mode int

const (
	ModeIdle Mode = iota
	ModeForm
	ModeDetail
	ModeDeleteConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeForm:
		return "form"
	case ModeDetail:
		return "detail"
	case ModeDeleteConfirm:
		return "delete-confirm"
	default:
		return "idle"
	}
}

// Notification messages.
const (
	MsgCreated       = "Client created successfully"
	MsgUpdated       = "Client updated successfully"
	MsgDeleted       = "Client deleted successfully"
	MsgDeleteFailed  = "Failed to delete client"
	MsgNoLongerExist = "Client no longer exists"
	msgSaveFailed    = "Could not save client: "
	msgLoadFailed    = "Could not load clients: "
	msgDeleteError   = "Could not delete client: "
)

// Option configures a Controller.
type Option func(*Controller)

// WithValidateOptions sets the rules used when submitting the form.
func WithValidateOptions(opts client.ValidateOptions) Option {
	return func(c *Controller) { c.validate = opts }
}

// Controller is the page state machine.
type Controller struct {
	store    store.Store
	validate client.ValidateOptions
	fold     cases.Caser

	clients  []client.Client
	filtered []client.Client
	search   string

	mode          Mode
	selected      *client.Client
	pendingDelete string
	formErrors    client.Errors

	notification Notification
}

// New creates a controller over s. Call Load before use.
func New(s store.Store, opts ...Option) *Controller {
	c := &Controller{
		store:    s,
		validate: client.DefaultValidateOptions(),
		fold:     cases.Fold(),
		clients:  []client.Client{},
		filtered: []client.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clients returns the full loaded collection in storage order.
func (c *Controller) Clients() []client.Client { return c.clients }

// Filtered returns the clients matching the search term.
func (c *Controller) Filtered() []client.Client { return c.filtered }

// Search returns the current search term.
func (c *Controller) Search() string { return c.search }

// Mode returns the open panel.
func (c *Controller) Mode() Mode { return c.mode }

// Selected returns the client being edited or viewed.
func (c *Controller) Selected() (client.Client, bool) {
	if c.selected == nil {
		return client.Client{}, false
	}
	return *c.selected, true
}

// Editing reports whether the open form edits an existing client.
func (c *Controller) Editing() bool {
	return c.mode == ModeForm && c.selected != nil
}

// PendingDelete returns the id awaiting delete confirmation.
func (c *Controller) PendingDelete() string { return c.pendingDelete }

// FormErrors returns the errors from the last rejected submit.
func (c *Controller) FormErrors() client.Errors { return c.formErrors }

// Load replaces the in-memory collection with the stored one.
func (c *Controller) Load(ctx context.Context) error {
	clients, err := c.store.ListAll(ctx)
	if err != nil {
		log.ErrorErr(log.CatCtrl, "Loading clients failed", err)
		c.Notify(NotifyError, msgLoadFailed+err.Error())
		return err
	}
	c.clients = clients
	c.applyFilter()
	return nil
}

// Refresh reloads after an external change, keeping the search term. A
// detail view or delete confirmation whose client vanished is closed; an
// open detail view is updated to the stored version.
func (c *Controller) Refresh(ctx context.Context) error {
	if err := c.Load(ctx); err != nil {
		return err
	}

	switch c.mode {
	case ModeDetail:
		if fresh, ok := c.find(c.selected.ID); ok {
			c.selected = &fresh
		} else {
			log.Debug(log.CatCtrl, "Viewed client vanished", "id", c.selected.ID)
			c.CloseDetail()
		}
	case ModeDeleteConfirm:
		if _, ok := c.find(c.pendingDelete); !ok {
			c.CancelDelete()
		}
	}
	return nil
}

// SetSearch updates the filter term and recomputes the filtered view.
func (c *Controller) SetSearch(term string) {
	c.search = term
	c.applyFilter()
}

func (c *Controller) applyFilter() {
	// Blank terms show everything; any other term matches as typed.
	if strings.TrimSpace(c.search) == "" {
		c.filtered = c.clients
		return
	}
	term := c.search

	folded := c.fold.String(term)
	digits := ""
	if strings.Trim(term, "0123456789./- ") == "" {
		digits = client.Digits(term)
	}

	filtered := make([]client.Client, 0, len(c.clients))
	for _, cl := range c.clients {
		if c.matches(cl, term, folded, digits) {
			filtered = append(filtered, cl)
		}
	}
	c.filtered = filtered
}

func (c *Controller) matches(cl client.Client, term, folded, digits string) bool {
	switch {
	case strings.Contains(c.fold.String(cl.LegalName), folded):
		return true
	case strings.Contains(c.fold.String(cl.TradeName), folded):
		return true
	case strings.Contains(cl.TaxID, term):
		return true
	case digits != "" && strings.Contains(client.Digits(cl.TaxID), digits):
		return true
	}
	return false
}

// OpenCreate opens an empty form.
func (c *Controller) OpenCreate() {
	c.closeAll()
	c.mode = ModeForm
}

// OpenEdit opens the form prefilled with cl.
func (c *Controller) OpenEdit(cl client.Client) {
	c.closeAll()
	c.mode = ModeForm
	c.selected = &cl
}

// CancelForm closes the form without touching the store.
func (c *Controller) CancelForm() {
	if c.mode == ModeForm {
		c.closeAll()
	}
}

// Submit validates fields and creates or updates a client. It reports
// whether the form closed. Invalid fields keep the form open with
// FormErrors set and never reach the store.
func (c *Controller) Submit(ctx context.Context, fields client.Fields) bool {
	if c.mode != ModeForm {
		return false
	}

	errs := client.Validate(fields, c.validate)
	if !errs.Valid() {
		c.formErrors = errs
		log.Debug(log.CatCtrl, "Form rejected", "errors", len(errs))
		return false
	}
	c.formErrors = nil
	fields.TaxID = client.FormatTaxID(fields.TaxID)

	if c.selected != nil {
		return c.submitUpdate(ctx, c.selected.ID, fields)
	}
	return c.submitCreate(ctx, fields)
}

func (c *Controller) submitCreate(ctx context.Context, fields client.Fields) bool {
	created, err := c.store.Create(ctx, fields)
	if err != nil {
		log.ErrorErr(log.CatCtrl, "Create failed", err)
		c.Notify(NotifyError, msgSaveFailed+err.Error())
		return false
	}
	log.Info(log.CatCtrl, "Client created", "id", created.ID)

	c.closeAll()
	c.reloadThen(ctx, NotifySuccess, MsgCreated)
	return true
}

func (c *Controller) submitUpdate(ctx context.Context, id string, fields client.Fields) bool {
	_, ok, err := c.store.Update(ctx, id, client.PatchFrom(fields))
	if err != nil {
		log.ErrorErr(log.CatCtrl, "Update failed", err, "id", id)
		c.Notify(NotifyError, msgSaveFailed+err.Error())
		return false
	}

	c.closeAll()
	if !ok {
		log.Warn(log.CatCtrl, "Updated client no longer exists", "id", id)
		c.reloadThen(ctx, NotifyError, MsgNoLongerExist)
		return true
	}
	c.reloadThen(ctx, NotifySuccess, MsgUpdated)
	return true
}

// RequestDelete asks for confirmation before deleting id.
func (c *Controller) RequestDelete(id string) {
	c.closeAll()
	c.mode = ModeDeleteConfirm
	c.pendingDelete = id
}

// CancelDelete dismisses the confirmation.
func (c *Controller) CancelDelete() {
	if c.mode == ModeDeleteConfirm {
		c.closeAll()
	}
}

// ConfirmDelete deletes the pending client. The confirmation closes whatever
// the outcome.
func (c *Controller) ConfirmDelete(ctx context.Context) {
	if c.mode != ModeDeleteConfirm {
		return
	}
	id := c.pendingDelete
	c.closeAll()

	ok, err := c.store.Delete(ctx, id)
	switch {
	case err != nil:
		log.ErrorErr(log.CatCtrl, "Delete failed", err, "id", id)
		c.Notify(NotifyError, msgDeleteError+err.Error())
	case !ok:
		c.reloadThen(ctx, NotifyError, MsgDeleteFailed)
	default:
		log.Info(log.CatCtrl, "Client deleted", "id", id)
		c.reloadThen(ctx, NotifySuccess, MsgDeleted)
	}
}

// OpenDetail shows cl read-only.
func (c *Controller) OpenDetail(cl client.Client) {
	c.closeAll()
	c.mode = ModeDetail
	c.selected = &cl
}

// CloseDetail hides the detail view and clears the selection.
func (c *Controller) CloseDetail() {
	if c.mode == ModeDetail {
		c.closeAll()
	}
}

func (c *Controller) closeAll() {
	c.mode = ModeIdle
	c.selected = nil
	c.pendingDelete = ""
	c.formErrors = nil
}

// reloadThen reloads the list and shows the outcome notification. A failed
// reload replaces it with the load error.
func (c *Controller) reloadThen(ctx context.Context, kind NotificationKind, msg string) {
	if err := c.Load(ctx); err != nil {
		return
	}
	c.Notify(kind, msg)
}

func (c *Controller) find(id string) (client.Client, bool) {
	for _, cl := range c.clients {
		if cl.ID == id {
			return cl, true
		}
	}
	return client.Client{}, false
}
