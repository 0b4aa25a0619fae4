package memory

import (
	"context"

	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
)

type orderRepo struct{ b *binding }

func (r *orderRepo) Create(ctx context.Context, o *entity.Order) error {
	return r.b.do("orders.create", func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		st.orders[o.ID] = *copyOrder(*o)
		return nil
	})
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.b.do("orders.get", func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = copyOrder(o)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) Close(ctx context.Context, o *entity.Order) error {
	return r.b.do("orders.close", func(st *state) error {
		cur, ok := st.orders[o.ID]
		if !ok {
			return domain.NotFound("orden", o.ID)
		}
		if cur.Status != entity.OrderStatusOpen {
			return domain.ErrConflict
		}
		st.orders[o.ID] = *copyOrder(*o)
		return nil
	})
}

func (r *orderRepo) CreatePayment(ctx context.Context, p *entity.Payment) error {
	return r.b.do("orders.create_payment", func(st *state) error {
		st.payments = append(st.payments, *p)
		return nil
	})
}

func copyOrder(o entity.Order) *entity.Order {
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	if o.ClosedAt != nil {
		t := *o.ClosedAt
		o.ClosedAt = &t
	}
	return &o
}

type tableRepo struct{ b *binding }

func (r *tableRepo) GetByID(ctx context.Context, id string) (*entity.DiningTable, error) {
	var out *entity.DiningTable
	err := r.b.do("tables.get", func(st *state) error {
		if t, ok := st.tables[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *tableRepo) SetStatus(ctx context.Context, id, status string) error {
	return r.b.do("tables.set_status", func(st *state) error {
		t, ok := st.tables[id]
		if !ok {
			return domain.NotFound("mesa", id)
		}
		t.Status = status
		st.tables[id] = t
		return nil
	})
}

type adjustmentRepo struct{ b *binding }

func (r *adjustmentRepo) Create(ctx context.Context, adj *entity.StockAdjustment) error {
	return r.b.do("adjustments.create", func(st *state) error {
		cp := *adj
		cp.Lines = append([]entity.StockAdjustmentLine(nil), adj.Lines...)
		st.adjustments = append(st.adjustments, cp)
		return nil
	})
}

type transferRepo struct{ b *binding }

func (r *transferRepo) Create(ctx context.Context, tr *entity.StockTransfer) error {
	return r.b.do("transfers.create", func(st *state) error {
		cp := *tr
		cp.Items = append([]entity.StockTransferItem(nil), tr.Items...)
		st.transfers = append(st.transfers, cp)
		return nil
	})
}

type saleEventRepo struct{ b *binding }

func (r *saleEventRepo) Create(ctx context.Context, ev *entity.SaleEvent) error {
	return r.b.do("sale_events.create", func(st *state) error {
		for _, e := range st.saleEvents {
			if e.OrderID == ev.OrderID {
				return domain.ErrDuplicate
			}
		}
		cp := *ev
		cp.Lines = append([]entity.SaleEventLine(nil), ev.Lines...)
		st.saleEvents = append(st.saleEvents, cp)
		return nil
	})
}
