// package remote exposes a running presentation over HTTP and websockets.
//
// The server never touches the controller directly: it drives a [presenter.Commander], which in terminal mode
// forwards each command onto the UI event loop and in headless mode wraps the controller itself. Accepted
// transitions are pushed to every websocket client by the [Hub], which is registered as a controller listener.
//
// Routes:
//
//	GET  /              remote control page
//	GET  /healthz       liveness
//	GET  /api/state     current view
//	POST /api/next      advance
//	POST /api/prev      retreat
//	POST /api/goto/{n}  jump to slide n
//	POST /api/start     first slide + fullscreen
//	POST /api/end       leave fullscreen + first slide
//	GET  /ws            state push + commands
package remote
