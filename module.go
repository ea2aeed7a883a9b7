package ioc

import (
	"context"
	"errors"
	"go/token"
	"reflect"
)

// Installer adds a group of registrations to a container.
type Installer interface {
	Install(c *Container) error
}

// ModuleLoader locates a code module by identifier and lists the types it
// exports.
type ModuleLoader interface {
	Load(ctx context.Context, id string) ([]reflect.Type, error)
}

var installerType = reflect.TypeOf((*Installer)(nil)).Elem()

// RegisterFromModule loads module id through the configured ModuleLoader,
// builds the first exported installer type it finds with zero arguments and
// installs it. If the installer fails, the registrations it made are undone.
func (c *Container) RegisterFromModule(ctx context.Context, id string) error {
	loader := c.config.loader
	if loader == nil {
		return errModuleNotFound(id, errors.New("no module loader configured"))
	}

	types, err := loader.Load(ctx, id)
	if err != nil {
		return errModuleNotFound(id, err)
	}

	installer, name, ok := findInstaller(types)
	if !ok {
		return errInstallerNotFound(id)
	}

	c.logger.Debug("installing module", "module", id, "installer", name)
	return c.install(name, installer)
}

// Install applies installers in order. Either all of them succeed or the
// registry is left as it was.
func (c *Container) Install(ctx context.Context, installers ...Installer) error {
	snapshot := c.internal.Snapshot()

	for _, in := range installers {
		if err := ctx.Err(); err != nil {
			c.internal.Restore(snapshot)
			return errModuleInstallFailed(installerName(in), err)
		}
		if err := c.install(installerName(in), in); err != nil {
			c.internal.Restore(snapshot)
			return err
		}
	}
	return nil
}

func (c *Container) install(name string, in Installer) error {
	snapshot := c.internal.Snapshot()

	if err := in.Install(c); err != nil {
		c.internal.Restore(snapshot)
		c.logger.Debug("module install rolled back", "installer", name, "error", err)

		var e *Error
		if errors.As(err, &e) {
			return err
		}
		return errModuleInstallFailed(name, err)
	}
	return nil
}

// findInstaller returns the first exported, non-interface type among types
// whose value or pointer implements Installer, instantiated with zero
// arguments.
func findInstaller(types []reflect.Type) (Installer, string, bool) {
	for _, t := range types {
		if t == nil {
			continue
		}
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t.Kind() == reflect.Interface || !token.IsExported(t.Name()) {
			continue
		}

		switch {
		case reflect.PointerTo(t).Implements(installerType):
			return reflect.New(t).Interface().(Installer), t.String(), true
		case t.Implements(installerType):
			return reflect.New(t).Elem().Interface().(Installer), t.String(), true
		}
	}
	return nil, "", false
}

func installerName(in Installer) string {
	if m, ok := in.(*Module); ok && m.name != "" {
		return m.name
	}
	return reflect.TypeOf(in).String()
}

// Module groups registrations so they can be installed together. *Module
// implements Installer.
type Module struct {
	name       string
	steps      []func(c *Container) error
	submodules []*Module
}

func NewModule(name string) *Module {
	return &Module{
		name: name,
	}
}

func (m *Module) Name() string {
	return m.name
}

// Include installs submodule before m's own registrations.
func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

func (m *Module) Install(c *Container) error {
	for _, sub := range m.submodules {
		if err := sub.Install(c); err != nil {
			return err
		}
	}

	for _, step := range m.steps {
		if err := step(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) add(step func(c *Container) error) *Module {
	m.steps = append(m.steps, step)
	return m
}

func ModuleRegister[C, I any](m *Module, opts ...RegisterOption) *Module {
	return m.add(
		func(c *Container) error {
			return Register[C, I](c, opts...)
		},
	)
}

func ModuleRegisterSelf[I any](m *Module, opts ...RegisterOption) *Module {
	return ModuleRegister[I, I](m, opts...)
}

func ModuleRegisterInstance[C, I any](m *Module, value I) *Module {
	return m.add(
		func(c *Container) error {
			return RegisterInstance[C, I](c, value)
		},
	)
}

func ModuleRegisterValue[T any](m *Module, value T) *Module {
	return ModuleRegisterInstance[T, T](m, value)
}

func ModuleRegisterFactory[C, I any](m *Module, factory Factory[I], opts ...RegisterOption) *Module {
	return m.add(
		func(c *Container) error {
			return RegisterFactory[C, I](c, factory, opts...)
		},
	)
}

func ModuleRegisterProvider[C, I any](m *Module, provider Provider[I], opts ...RegisterOption) *Module {
	return m.add(
		func(c *Container) error {
			return RegisterProvider[C, I](c, provider, opts...)
		},
	)
}
