//go:build darwin

package window

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	loadQuartzOnce sync.Once
	loadQuartzErr  error

	selLayer         objc.SEL
	selContentView   objc.SEL
	selSetWantsLayer objc.SEL
	selSetLayer      objc.SEL
	selSetScale      objc.SEL
	selBackingScale  objc.SEL
)

func loadQuartz() error {
	loadQuartzOnce.Do(func() {
		if _, err := purego.Dlopen("/usr/lib/libobjc.A.dylib", purego.RTLD_GLOBAL); err != nil {
			loadQuartzErr = fmt.Errorf("window: load libobjc: %w", err)
			return
		}
		if _, err := purego.Dlopen("/System/Library/Frameworks/QuartzCore.framework/QuartzCore", purego.RTLD_GLOBAL); err != nil {
			loadQuartzErr = fmt.Errorf("window: load QuartzCore: %w", err)
			return
		}
		selLayer = objc.RegisterName("layer")
		selContentView = objc.RegisterName("contentView")
		selSetWantsLayer = objc.RegisterName("setWantsLayer:")
		selSetLayer = objc.RegisterName("setLayer:")
		selSetScale = objc.RegisterName("setContentsScale:")
		selBackingScale = objc.RegisterName("backingScaleFactor")
	})
	return loadQuartzErr
}

// nativeHandles attaches a CAMetalLayer to the window's content view and
// returns it as the window handle.
func nativeHandles(w *glfw.Window) (uintptr, uintptr, error) {
	if err := loadQuartz(); err != nil {
		return 0, 0, err
	}
	nsWindow := objc.ID(uintptr(w.GetCocoaWindow()))
	view := nsWindow.Send(selContentView)
	if view == 0 {
		return 0, 0, fmt.Errorf("window: NSWindow has no content view")
	}

	layer := objc.ID(objc.GetClass("CAMetalLayer")).Send(selLayer)
	if layer == 0 {
		return 0, 0, fmt.Errorf("window: create CAMetalLayer")
	}
	view.Send(selSetWantsLayer, true)
	view.Send(selSetLayer, layer)
	layer.Send(selSetScale, objc.Send[float64](nsWindow, selBackingScale))
	return 0, uintptr(layer), nil
}
