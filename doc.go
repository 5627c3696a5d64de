// Package cityscape is a retained-mode 3D neighbourhood viewer for
// [Ebitengine] that outlines the hovered building with a selective
// image-space border effect.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := cityscape.NewScene(cityscape.Rect{Width: 1024, Height: 640})
//	// ... add buildings ...
//	cityscape.Run(scene, cityscape.RunConfig{
//		Title: "Neighbourhood", Width: 1024, Height: 640,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly.
//
// # Scene graph
//
// Buildings are [Node] values with an axis-aligned box, created with
// [NewBuilding] and grouped under containers from [NewContainer]:
//
//	block := cityscape.NewContainer("block")
//	scene.Root().AddChild(block)
//
//	b := cityscape.NewBuilding("hall", cityscape.Vec3{X: -4}, cityscape.Vec3{X: 4, Y: 10, Z: 8}, nil)
//	block.AddChild(b)
//
// Every node has a [Layer]. Render passes draw the layers in a [LayerMask];
// [LayerBorder] is reserved for the border effect.
//
// # Border effect
//
// A [BorderEffect] owns a [Registry] of nodes to outline. Each frame it
//
//  1. moves the tracked nodes to [LayerBorder] and renders their ids
//     (palette index + 1) into a half-float [IDBuffer], restoring their
//     layers as soon as the render returns, even on error or panic;
//  2. marks pixels whose id differs from a neighbour's, skipping tracked
//     pixels hidden behind other buildings;
//  3. optionally blurs the edges with a separable binomial kernel;
//  4. blends the border tint over the rendered scene.
//
// Attach one with [Scene.SetBorderEffect]; the scene then highlights the
// building under the pointer. Developer builds can show any intermediate
// buffer instead of the final frame with [BorderConfig.DebugView].
//
// # Camera and input
//
// The [Camera] orbits a pivot on the map. A left drag pans, a right drag
// orbits and the wheel zooms. [Camera.ZoomTo] and [Camera.ResetRotation]
// animate with [gween].
//
// # Automated testing
//
// [LoadTestScript] reads a JSON script of hover, drag, orbit, wheel, wait,
// screenshot and dump steps. Attach it with [Scene.SetTestRunner].
//
// # Logging
//
// The package is silent by default. Pass a [log/slog.Logger] to [SetLogger]
// to see effect setup, pass timings (in debug mode) and warnings.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package cityscape
