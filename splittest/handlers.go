package splittest

import "github.com/iov-one/splitnet"

// Handler is a splitnet.Handler mock counting its calls. It returns the
// configured results. When Key is set, the value is written to the store
// before returning.
type Handler struct {
	checkCall   int
	CheckResult splitnet.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult splitnet.DeliverResult
	DeliverErr    error

	Key   []byte
	Value []byte

	// Panic if set makes every call panic with its value.
	Panic interface{}
}

var _ splitnet.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.CheckResult, error) {
	h.checkCall++
	if err := h.call(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx) (*splitnet.DeliverResult, error) {
	h.deliverCall++
	if err := h.call(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) call(db splitnet.KVStore) error {
	if h.Panic != nil {
		panic(h.Panic)
	}
	if h.Key != nil {
		return db.Set(h.Key, h.Value)
	}
	return nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// Decorator is a splitnet.Decorator mock counting its calls. When Err is set
// the call is not passed down the stack.
type Decorator struct {
	checkCall   int
	deliverCall int
	Err         error
}

var _ splitnet.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx, next splitnet.Checker) (*splitnet.CheckResult, error) {
	d.checkCall++
	if d.Err != nil {
		return nil, d.Err
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx splitnet.Context, db splitnet.KVStore, tx splitnet.Tx, next splitnet.Deliverer) (*splitnet.DeliverResult, error) {
	d.deliverCall++
	if d.Err != nil {
		return nil, d.Err
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}
