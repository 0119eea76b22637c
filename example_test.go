package router_test

import (
	"fmt"

	router "github.com/goliatone/go-navrouter"
)

func ExampleRouter() {
	r := router.MustNew(router.WithDefaultRoute("home"))
	r.MustRegister("home", "/").MustRegister("profile", "/user/:id")
	r.Start()

	res := r.NavigateToPath("/user/42?tab=posts")
	fmt.Println(res.Outcome(), r.CurrentURL())

	r.Back()
	fmt.Println(r.CurrentPath(), r.CanGoForward())
	// Output:
	// committed /user/42?tab=posts
	// / true
}

func ExampleParsePattern() {
	p, err := router.ParsePattern("/files/:dir/**")
	if err != nil {
		panic(err)
	}
	params, ok := p.Match("/files/docs/a/b")
	dir, _ := params.Get("dir")
	fmt.Println(ok, dir, p.Priority())
	// Output: true docs 100101
}

func ExampleNavigationHistory_PopTo() {
	h := router.NewEmptyHistory()
	h.SetStack([]router.Route{router.NewRoute("home"), router.NewRoute("list"), router.NewRoute("detail")})

	fmt.Println(h.PopTo("list"), h.Depth())
	fmt.Println(h.PopTo("list"), h.Depth())
	// Output:
	// true 2
	// false 2
}
