package toast

// Toaster is the entry point handed to request handlers.
//
//	t := toast.NewToaster(svc.Store(bag))
//	_ = t.Success("Saved", toast.WithDescription("<b>3</b> rows"))
type Toaster struct {
	store *Store
}

func NewToaster(store *Store) *Toaster { return &Toaster{store: store} }

// Toast raises a toast with an explicit status.
func (t *Toaster) Toast(status, message string, opts ...Option) error {
	return t.store.AddMessage(status, message, opts...)
}

func (t *Toaster) Success(message string, opts ...Option) error {
	return t.Toast(StatusSuccess, message, opts...)
}

func (t *Toaster) Info(message string, opts ...Option) error {
	return t.Toast(StatusInfo, message, opts...)
}

func (t *Toaster) Notice(message string, opts ...Option) error {
	return t.Toast(StatusNotice, message, opts...)
}

func (t *Toaster) Warning(message string, opts ...Option) error {
	return t.Toast(StatusWarning, message, opts...)
}

// Danger raises an error toast. Danger toasts never auto-dismiss.
func (t *Toaster) Danger(message string, opts ...Option) error {
	return t.Toast(StatusDanger, message, opts...)
}

func (t *Toaster) Store() *Store { return t.store }
