// Package dispatch routes one inbound chat message to the bundle or search
// pipeline and reports the outcome back through a Conversation.
//
// The Router is the outermost request boundary: errors and panics raised
// while serving a message are logged with detail and turned into a single
// generic notice, so one bad request never takes the bot down.
package dispatch
