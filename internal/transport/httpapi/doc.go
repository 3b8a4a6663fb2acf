// Package httpapi exposes balls sessions over a REST API built on
// gorilla/mux, and mounts the WebSocket hub, an optional MCP endpoint and
// a small browser client next to it.
//
// Routes:
//
//	POST   /api/sessions                  create a session {"variant", "seed"}
//	GET    /api/sessions                  list sessions
//	GET    /api/sessions/{id}             session view
//	DELETE /api/sessions/{id}             drop a session
//	GET    /api/sessions/{id}/cluster     cluster preview, ?x=&y=
//	POST   /api/sessions/{id}/remove      remove a cluster {"x", "y"}
//	GET    /api/sessions/{id}/clusters    every removable cluster
//	GET    /api/sessions/{id}/hint        largest removable cluster
//	GET    /api/variants                  playable variants
//	GET    /api/scores/{game}             best and top scores
//	GET    /api/records                   recent finished games, ?game=&limit=
//	GET    /api/records/{rid}             one finished game
//	GET    /ws                            WebSocket
//	POST   /mcp                           MCP JSON-RPC, when configured
//	GET    /healthz                       liveness
package httpapi
