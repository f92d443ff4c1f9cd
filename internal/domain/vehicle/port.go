package vehicle

import "context"

type Repo interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, id int64) (*Vehicle, error)
	List(ctx context.Context, f Filter) ([]*Vehicle, error)
	Update(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id int64) error
}
