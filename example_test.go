package direg_test

import (
	"fmt"

	direg "github.com/toutaio/toutago-direg"
	"github.com/toutaio/toutago-direg/container"
)

type Clock struct{}

type Greeter interface {
	Greet() string
}

type politeGreeter struct {
	Clock *Clock `inject:""`
}

func (*politeGreeter) Greet() string { return "Good morning" }

func ExampleScanner_RegisterMarkedClasses() {
	catalog := direg.NewCatalog()
	catalog.Declare(&Clock{}, direg.Mark(direg.LifetimeSingleton))
	catalog.Declare(&politeGreeter{}, direg.As[Greeter](direg.LifetimeTransient))

	c := container.New()
	if err := direg.NewScanner(direg.WithCatalog(catalog)).RegisterMarkedClasses(c); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(c.Make((*Greeter)(nil)).(Greeter).Greet())
	// Output: Good morning
}

func ExampleScanner_Entries() {
	catalog := direg.NewCatalog()
	catalog.Declare(&politeGreeter{}, direg.As[Greeter](direg.LifetimeScoped))
	catalog.Declare(&Clock{}, direg.As[Greeter](direg.LifetimeScoped))

	entries, err := direg.NewScanner(direg.WithCatalog(catalog)).Entries()
	for _, e := range entries {
		fmt.Println(e)
	}
	fmt.Println(err)
	// Output:
	// direg_test.Greeter -> *direg_test.politeGreeter (scoped)
	// configuration error for *direg_test.Clock (marker scoped as direg_test.Greeter): *direg_test.Clock does not implement direg_test.Greeter
}

func ExampleMarkAs() {
	m := direg.MarkAs((*Greeter)(nil), direg.LifetimeSingleton)
	fmt.Println(m)
	// Output: marker singleton as direg_test.Greeter
}
