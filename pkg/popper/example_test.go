package popper_test

import (
	"fmt"

	"github.com/matzehuels/popper/pkg/dom/memdom"
	"github.com/matzehuels/popper/pkg/geometry"
	"github.com/matzehuels/popper/pkg/popper"
)

func Example() {
	doc := memdom.New(800, 600)
	ref := doc.Add(nil, "button", "ref", geometry.Rect{Top: 100, Left: 100, Width: 50, Height: 20})
	tip := doc.Add(nil, "div", "tip", geometry.Rect{Width: 80, Height: 30})

	eng, err := popper.New(doc, ref, tip, popper.WithGPUAcceleration(false))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer eng.Close()

	placement, _ := tip.Attr(popper.PlacementAttribute)
	fmt.Println(placement, tip.Style("top"), tip.Style("left"))
	// Output: bottom 120px 85px
}

func Example_flip() {
	doc := memdom.New(800, 600)
	ref := doc.Add(nil, "button", "ref", geometry.Rect{Top: 560, Left: 100, Width: 50, Height: 20})
	tip := doc.Add(nil, "div", "tip", geometry.Rect{Width: 80, Height: 30})

	eng, err := popper.New(doc, ref, tip)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer eng.Close()

	d := eng.Last()
	fmt.Println(d.OriginalPlacement, "->", d.Placement, d.Flipped)
	fmt.Println(tip.Style("transform"))
	// Output:
	// bottom -> top true
	// translate3d(85px, 530px, 0)
}

func ExampleEngine_OnUpdate() {
	doc := memdom.New(800, 600)
	ref := doc.Add(nil, "button", "ref", geometry.Rect{Top: 100, Left: 100, Width: 50, Height: 20})
	tip := doc.Add(nil, "div", "tip", geometry.Rect{Width: 80, Height: 30})

	eng, err := popper.New(doc, ref, tip)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer eng.Close()

	eng.OnUpdate(func(d *popper.Data) {
		fmt.Printf("top=%v bounds.top=%v\n", d.Offsets.Popper.Top, d.Boundaries.Top)
	})
	doc.ScrollTo(doc.Root(), 0, 50)
	// Output: top=120 bounds.top=55
}

func ExampleNewFromSpec() {
	doc := memdom.New(800, 600)
	ref := doc.Add(nil, "button", "ref", geometry.Rect{Top: 100, Left: 100, Width: 50, Height: 20})

	eng, err := popper.NewFromSpec(doc, ref, popper.PopperSpec{
		Content:    "Hello",
		Attributes: []string{"role:tooltip"},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer eng.Close()

	tip := eng.Popper().(*memdom.Node)
	role, _ := tip.Attr("role")
	fmt.Println(tip.Tag(), tip.Classes(), role, tip.Text(), len(tip.Children()))
	// Output: div [popper] tooltip Hello 1
}
