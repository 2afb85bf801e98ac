package settings_test

import (
	"context"
	"errors"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"home_maintenance/internal/domain"
	"home_maintenance/internal/domain/entity"
	"home_maintenance/internal/domain/service/settings"
	"home_maintenance/pkg/errcodes"
)

type fakeRepo struct {
	values map[string]string
	err    error
}

func (f *fakeRepo) All(context.Context) ([]entity.Setting, error) {
	list := make([]entity.Setting, 0, len(f.values))
	for k, v := range f.values {
		list = append(list, entity.Setting{Key: k, Value: v})
	}
	return list, f.err
}

func (f *fakeRepo) Get(_ context.Context, key string) (entity.Setting, error) {
	if f.err != nil {
		return entity.Setting{}, f.err
	}
	v, ok := f.values[key]
	if !ok {
		return entity.Setting{}, domain.NewError(errcodes.SettingNotFound, "setting not found")
	}
	return entity.Setting{Key: key, Value: v}, nil
}

func (f *fakeRepo) Set(ctx context.Context, s entity.Setting) error {
	return f.SetMany(ctx, []entity.Setting{s})
}

func (f *fakeRepo) SetMany(_ context.Context, list []entity.Setting) error {
	for _, s := range list {
		f.values[s.Key] = s.Value
	}
	return f.err
}

func TestService(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	svc := settings.NewService(&fakeRepo{values: map[string]string{}})

	v, err := svc.Get(ctx, "pool_volume", "50000")
	rq.NoError(err)
	rq.Equal("50000", v)

	_, err = svc.Lookup(ctx, "pool_volume")
	rq.True(domain.IsNotFound(err))

	rq.NoError(svc.Set(ctx, "pool_volume", "52000"))

	v, err = svc.Get(ctx, "pool_volume", "50000")
	rq.NoError(err)
	rq.Equal("52000", v)

	n, err := svc.Import(ctx, map[string]string{"location": "Brisbane", "units": "metric"})
	rq.NoError(err)
	rq.Equal(2, n)

	all, err := svc.All(ctx)
	rq.NoError(err)
	rq.Equal(map[string]string{"pool_volume": "52000", "location": "Brisbane", "units": "metric"}, all)
}

func TestService_Errors(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := settings.NewService(&fakeRepo{values: map[string]string{}})
	err := svc.Set(ctx, "  ", "x")
	rq.True(failure.IsInvalidArgumentError(err))
	rq.Equal(errcodes.InvalidSettingKey, failure.Code(err))

	broken := &fakeRepo{values: map[string]string{}, err: errors.New("disk I/O error")}
	svc = settings.NewService(broken)

	_, err = svc.Get(ctx, "pool_volume", "1")
	rq.ErrorIs(err, broken.err)
}
