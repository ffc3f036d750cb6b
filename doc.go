// Package tabletop is a retained-mode scene runtime for [Ebitengine], built
// for card-game playtesting.
//
// A [Manager] owns a set of named scenes, a handle-indexed surface [Cache] and
// an input [Environment]. Every tick it runs the active [Scene]:
//
//	start-of-tick callbacks
//	input pump
//	schedule   roots sorted by Z, ScheduleProcessing concatenated
//	process    reverse order, front-most object first
//	display    drawable leaves sorted by Z, pixmaps rebuilt as needed
//	reap       destroyed objects detached
//	end-of-tick callbacks
//
// The Manager implements [ebiten.Game], so running a window is just:
//
//	m := tabletop.NewManager(1280, 720, os.DirFS("assets"), &tabletop.EbitenInput{})
//	menu.Register(m, menu.Options{Files: os.DirFS("assets"), DecksDir: "Decks", ImagesDir: "Images"})
//	m.ScheduleSceneChange(tabletop.SceneMainMenu, nil)
//	ebiten.RunGame(m)
//
// Tests call [Manager.Tick] directly with a [ScriptedInput] and never open a
// window.
//
// # Scene objects
//
// Every object embeds a [Node] and satisfies [Object]. Widgets embed one
// another: [Box] draws, [Button] reacts to clicks and keys, [MobileButton]
// can be dragged, [Overlay] is an opaque panel with a close button. Embedding
// types call the matching Init function with themselves as self so that the
// scene schedules the outermost type.
//
// Opaque objects mask clicks for every object behind them that they overlap
// ([Scene.ObjectMask]). There is no event bubbling; the front widget wins.
//
// # Surfaces
//
// Widgets never hold pixels. They hold a [Handle] into the [Cache], which
// records how each entry was produced (file, text, or a scale/rotate of
// another handle) so the pixels can be dropped and rebuilt at any time. The
// same metadata is what [Manager.Save] writes to disk.
//
// [Ebitengine]: https://ebitengine.org
package tabletop
