// Package hashnav is an in-process hash navigation source.
//
// A Router stores the current hash value of a page-like location and notifies
// subscribers whose pattern matches the new value whenever it changes. It is
// the default navigation source of an sfap application and is also handy for
// driving an application headlessly in tests and from the command line.
//
//	r := hashnav.New("http://localhost/")
//	cancel, err := r.OnChange(`/users/.*`, func(to, from string) {
//		fmt.Println(from, "->", to)
//	})
//	r.SetHash("/users/42") // prints " -> /users/42"
//	cancel()
//
// Patterns are regular expressions matched against the whole hash value.
// Subscribers run synchronously on the goroutine that called SetHash, in
// subscription order, after the router lock is released.
package hashnav
