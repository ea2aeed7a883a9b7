package ioc_test

import (
	"context"
	"testing"

	"github.com/pikciu/ioc"
)

func BenchmarkRegister_Constructor(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		c := ioc.New()
		_ = ioc.Register[Service, *ServiceImpl](c, ioc.WithConstructor(NewServiceImpl))
	}
}

func BenchmarkRegister_Override(b *testing.B) {
	b.ReportAllocs()

	c := ioc.New(ioc.WithOverride())
	for i := 0; i < b.N; i++ {
		_ = ioc.Register[Foo, *FooImpl](c)
	}
}

func BenchmarkResolve_Singleton(b *testing.B) {
	c := ioc.New()
	ioc.MustRegister[Database, *FakeDatabase](c, ioc.AsSingleton())
	_ = ioc.MustResolve[Database](c)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = ioc.Resolve[Database](c)
	}
}

func BenchmarkResolve_PerRequest(b *testing.B) {
	c := ioc.New()
	ioc.MustRegister[Database, *FakeDatabase](c)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = ioc.Resolve[Database](c)
	}
}

func BenchmarkResolve_ConstructorInjection(b *testing.B) {
	c := ioc.New()
	ioc.MustRegister[Database, *FakeDatabase](c, ioc.AsSingleton())
	ioc.MustRegister[Service, *ServiceImpl](c, ioc.WithConstructor(NewServiceImpl))

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = ioc.Resolve[Service](c)
	}
}

func BenchmarkResolve_Chain3(b *testing.B) {
	c := chainContainer()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = ioc.Resolve[*A](c)
	}
}

func BenchmarkResolve_Provider(b *testing.B) {
	c := ioc.New()
	ioc.MustRegisterValue(c, &C{Name: "leaf"})
	ioc.MustRegisterProvider[*B, *B](
		c, func(ctx context.Context, r ioc.Resolver) (*B, error) {
			leaf, err := ioc.ResolveCtx[*C](ctx, r)
			return &B{C: leaf}, err
		},
	)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = ioc.Resolve[*B](c)
	}
}

func BenchmarkResolve_Parallel_Singleton(b *testing.B) {
	c := ioc.New()
	ioc.MustRegister[Database, *FakeDatabase](c, ioc.AsSingleton())

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(
		func(pb *testing.PB) {
			for pb.Next() {
				_, _ = ioc.Resolve[Database](c)
			}
		},
	)
}

func BenchmarkResolve_Parallel_Chain3(b *testing.B) {
	c := chainContainer()

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(
		func(pb *testing.PB) {
			for pb.Next() {
				_, _ = ioc.Resolve[*A](c)
			}
		},
	)
}

func BenchmarkLifecycle_WarmupClose(b *testing.B) {
	b.ReportAllocs()
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		c := ioc.New()
		ioc.MustRegisterSelf[*C](c, ioc.AsSingleton())
		ioc.MustRegisterSelf[*B](c, ioc.WithConstructor(func(leaf *C) *B { return &B{C: leaf} }), ioc.AsSingleton())
		ioc.MustRegisterSelf[*A](c, ioc.WithConstructor(func(mid *B) *A { return &A{B: mid} }), ioc.AsSingleton())

		_ = c.Warmup(ctx)
		_ = c.Close(ctx)
	}
}

func chainContainer() *ioc.Container {
	c := ioc.New()
	ioc.MustRegisterSelf[*C](c)
	ioc.MustRegisterSelf[*B](c, ioc.WithConstructor(func(leaf *C) *B { return &B{C: leaf} }))
	ioc.MustRegisterSelf[*A](c, ioc.WithConstructor(func(mid *B) *A { return &A{B: mid} }))
	return c
}
