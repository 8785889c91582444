// Package craft is the root of a minimal GPU rendering bootstrap built on
// gogpu/wgpu: it opens a native window, negotiates an adapter, device and
// presentation surface, uploads a textured quad and redraws it every frame
// until the window is closed or Escape is pressed.
//
// # Architecture
//
// The module is organized into:
//   - craft: process-wide logger and configuration
//   - gpu: buffer, texture, bind group and pipeline helpers over wgpu
//   - shader: WGSL reflection used to check entry points before pipeline creation
//   - renderer: device and surface ownership, resize and per-frame rendering
//   - window: glfw window, native handles and input events
//   - app: the event loop tying window and renderer together
//
// # Logging
//
// By default craft produces no log output. Call [SetLogger] once at startup
// to enable it:
//
//	craft.SetLogger(slog.New(craft.NewLogHandler(os.Stderr, slog.LevelInfo)))
//
// # Configuration
//
// [LoadConfig] reads an optional .env file and CRAFT_* environment variables.
package craft
