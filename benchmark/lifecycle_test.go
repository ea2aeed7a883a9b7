package benchmark

import (
	"context"
	"testing"

	"go.uber.org/fx"

	"github.com/pikciu/ioc"
)

func BenchmarkLifecycle_Chain_Ioc(b *testing.B) {
	ctx := context.Background()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c := chainIoc(ioc.AsSingleton())
		ioc.MustRegisterSelf[*Closer](c, ioc.AsSingleton())

		_ = c.Warmup(ctx)
		_ = c.Close(ctx)
	}
}

func BenchmarkLifecycle_Chain_Fx(b *testing.B) {
	ctx := context.Background()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		app := fx.New(
			fx.NopLogger,
			chainFx(),
			fx.Provide(
				func(lc fx.Lifecycle) *Closer {
					cl := &Closer{}
					lc.Append(fx.StopHook(cl.Close))
					return cl
				},
			),
			fx.Invoke(func(*Service, *Closer) {}),
		)
		_ = app.Start(ctx)
		_ = app.Stop(ctx)
	}
}
