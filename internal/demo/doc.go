// Package demo holds the components behind `guise demo` and `guise inspect`:
// a counter and a TodoMVC-style list made of a todo-app element and
// customized <li is="todo-item"> rows.
//
// A Session mounts them in a headless memdom document, and the scripts
// drive them the way a user would.
package demo
