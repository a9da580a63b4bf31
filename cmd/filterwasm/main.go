//go:build js && wasm

// Command filterwasm runs the publication filter inside the browser. Build
// with GOOS=js GOARCH=wasm and load it next to wasm_exec.js on a generated
// page.
package main

import (
	"fmt"
	"syscall/js"

	"github.com/vanderheijden86/snolabib/pkg/domjs"
	"github.com/vanderheijden86/snolabib/pkg/filter"
)

func main() {
	doc := domjs.Current()
	dir, err := doc.Directory()
	if err != nil {
		js.Global().Get("console").Call("error", fmt.Sprintf("snolabib: %v", err))
		return
	}

	e := filter.New(doc.Publications(), dir, filter.WithHeading(doc.Heading()))
	if err := e.Mount(doc); err != nil {
		js.Global().Get("console").Call("error", fmt.Sprintf("snolabib: %v", err))
		return
	}

	onClick := js.FuncOf(func(this js.Value, args []js.Value) any {
		e.Click(domjs.Element(args[0].Get("target")))
		return nil
	})
	for _, f := range filter.Facets {
		if panel := js.Global().Get("document").Call("getElementById", filter.PanelID(f)); panel.Truthy() {
			panel.Call("addEventListener", "click", onClick)
		}
	}

	for i, li := range doc.Items() {
		li.Call("addEventListener", "mouseenter", js.FuncOf(func(this js.Value, args []js.Value) any {
			e.Hover(i)
			return nil
		}))
		li.Call("addEventListener", "mouseleave", js.FuncOf(func(this js.Value, args []js.Value) any {
			e.Unhover()
			return nil
		}))
	}

	select {}
}
