// Package ioc is an in-process dependency injection container.
//
// A Container maps contract types to registrations. Resolving a contract
// builds its implementation, resolving the implementation's constructor
// parameters from the same container first.
//
// # Registration
//
//	c := ioc.New()
//
//	ioc.Register[Repository, *PostgresRepo](c,
//	    ioc.WithConstructor(NewPostgresRepo),  // func(*sql.DB, *slog.Logger) *PostgresRepo
//	    ioc.AsSingleton(),
//	)
//	ioc.RegisterValue(c, db)                         // caller-built *sql.DB
//	ioc.RegisterInstance[Clock, *FixedClock](c, clk) // caller-built, bound to a contract
//	ioc.RegisterSelf[*Handler](c)                    // zero-argument construction
//	ioc.RegisterFactory[Mailer, *SMTPMailer](c, func() (*SMTPMailer, error) {
//	    return DialSMTP(addr)
//	})
//
// The implementation type must be assignable to the contract type. A second
// registration for the same contract fails with a DuplicateRegistration
// error unless the container was created with WithOverride, in which case it
// replaces the first one.
//
// # Lifecycles
//
// PerRequest, the default, builds a new instance on every resolution.
// Singleton builds one instance on first resolution and returns it from then
// on; concurrent first resolutions still build it only once. Values handed
// over with RegisterInstance or RegisterValue are always returned as is.
//
// # Resolution
//
//	repo, err := ioc.Resolve[Repository](c)
//	repo := ioc.MustResolve[Repository](c)
//	repo, ok := ioc.TryResolve[Repository](c)
//
// Providers registered with RegisterProvider receive a Resolver and a
// context; nested resolutions must use that context:
//
//	ioc.RegisterProvider[*Service, *Service](c, func(ctx context.Context, r ioc.Resolver) (*Service, error) {
//	    repo, err := ioc.ResolveCtx[Repository](ctx, r)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &Service{repo: repo}, nil
//	})
//
// A contract that is requested again while it is still being built fails
// with a CyclicDependency error whose Stack lists the chain.
//
// # Modules
//
// An Installer adds a group of registrations. *Module is one:
//
//	var Storage = ioc.NewModule("storage")
//	ioc.ModuleRegister[Repository, *PostgresRepo](Storage, ioc.WithConstructor(NewPostgresRepo))
//
//	err := c.Install(ctx, Storage)
//
// RegisterFromModule asks the ModuleLoader set with WithModuleLoader for the
// exported types of a module, builds the first installer among them and runs
// it. See package loader for in-process catalogs and Go plugins. A failed
// install leaves the container as it was.
//
// # Errors
//
// Every error is an *Error with an ErrorCode. Use the Is* predicates or
// errors.Is with the Err* sentinels:
//
//	if ioc.IsUnregisteredType(err) { ... }
//	if errors.Is(err, ioc.ErrCyclicDependency) { ... }
//
// # Shutdown
//
// Close closes every singleton the container built that implements
// io.Closer or ContextCloser, newest first.
//
// # Observability
//
// Observers receive every registration, resolution and close:
//
//	c := ioc.New(
//	    ioc.WithLogger(logger),
//	    ioc.WithResolveObserver(func(contract string, d time.Duration, err error) { ... }),
//	)
//
// See package metrics for a Prometheus implementation and package iochttp
// for HTTP health and inspection endpoints.
package ioc
