package ioc_test

import (
	"strings"
	"testing"

	"github.com/pikciu/ioc"
)

func TestPrintGraphEmpty(t *testing.T) {
	t.Parallel()

	c := ioc.New()
	if out := c.SprintGraph(); out != "(empty container)\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestPrintGraph(t *testing.T) {
	t.Parallel()

	c := ioc.New()
	ioc.MustRegister[Database, *FakeDatabase](c, ioc.AsSingleton())
	ioc.MustRegister[Service, *ServiceImpl](c, ioc.WithConstructor(NewServiceImpl))
	_ = ioc.MustResolve[Database](c)

	lines := strings.Split(strings.TrimSpace(c.SprintGraph()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", lines)
	}

	if !strings.HasPrefix(lines[0], "●") || !strings.Contains(lines[0], "[singleton]") {
		t.Errorf("database should be shown as a built singleton: %s", lines[0])
	}
	if !strings.Contains(lines[0], "ioc_test.Database => *github.com/pikciu/ioc_test.FakeDatabase") {
		t.Errorf("database line should show contract and implementation: %s", lines[0])
	}

	if !strings.HasPrefix(lines[1], "○") || !strings.Contains(lines[1], "[per-request]") {
		t.Errorf("service should be shown as unbuilt per-request: %s", lines[1])
	}
	if !strings.HasSuffix(lines[1], "← github.com/pikciu/ioc_test.Database") {
		t.Errorf("service line should list its dependency: %s", lines[1])
	}
}

func TestPrintGraphDOT(t *testing.T) {
	t.Parallel()

	c := ioc.New()
	ioc.MustRegisterValue(c, &C{Name: "leaf"})
	ioc.MustRegisterSelf[*B](c, ioc.WithConstructor(func(leaf *C) *B { return &B{C: leaf} }), ioc.AsSingleton())
	ioc.MustRegisterSelf[*A](c, ioc.WithConstructor(func(mid *B) *A { return &A{B: mid} }))
	_ = ioc.MustResolve[*B](c)

	dot := c.SprintGraphDOT()

	for _, want := range []string{
		"digraph dependencies {",
		"rankdir=LR;",
		`"*github.com/pikciu/ioc_test.C" [label="ioc_test.C", style=filled, fillcolor=lightgrey];`,
		`"*github.com/pikciu/ioc_test.B" [label="ioc_test.B", style=filled, fillcolor=lightblue];`,
		`"*github.com/pikciu/ioc_test.A" [label="ioc_test.A"];`,
		`"*github.com/pikciu/ioc_test.A" -> "*github.com/pikciu/ioc_test.B";`,
		`"*github.com/pikciu/ioc_test.B" -> "*github.com/pikciu/ioc_test.C";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestGraphInfo(t *testing.T) {
	t.Parallel()

	c := ioc.New()
	ioc.MustRegister[Database, *FakeDatabase](c)
	ioc.MustRegister[Service, *ServiceImpl](c, ioc.WithConstructor(NewServiceImpl))

	info := c.Graph()
	if len(info.Registrations) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(info.Registrations))
	}

	db, svc := info.Registrations[0], info.Registrations[1]
	if len(db.Dependents) != 1 || db.Dependents[0] != svc.Contract {
		t.Errorf("database dependents should be the service, got %v", db.Dependents)
	}
	if len(svc.Dependencies) != 1 || svc.Dependencies[0] != db.Contract {
		t.Errorf("service dependencies should be the database, got %v", svc.Dependencies)
	}
	if db.Instantiated || db.PreSupplied {
		t.Errorf("nothing was built or supplied: %+v", db)
	}
}

func TestShortName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"*github.com/acme/app/store.DB": "store.DB",
		"github.com/acme/app.Service":   "app.Service",
		"int":                           "int",
	}
	for in, want := range tests {
		if got := ioc.ShortName(in); got != want {
			t.Errorf("ShortName(%q) = %q, want %q", in, got, want)
		}
	}
}
