// Package websocket serves balls sessions to browsers over gorilla/websocket.
//
// Each connection is bound to one session. Clients send JSON requests:
//
//	{"action": "state"}
//	{"action": "cluster", "x": 3, "y": 1}
//	{"action": "remove", "x": 3, "y": 1}
//	{"action": "new", "variant": "balls_small", "seed": 42}
//
// and receive JSON messages with an event name, the session view and, for
// removals, the removal result. Removals are broadcast to every client
// bound to the same session so several tabs stay in sync.
package websocket
