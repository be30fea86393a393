// Package game implements the core blackjack round engine.
//
// The main type is Engine, which owns the shoe and every seat at the table
// and is the sole mutator of game state. It runs a four-phase state machine
// (betting, players' turn, dealer's turn, round over) driven entirely by
// discrete intents: place a bet, start the round, hit, stand, prepare the
// next round. Every intent runs to completion synchronously, including any
// cascaded dealer play and settlement, and produces a Snapshot for the
// presentation or transport layer.
//
// The engine is not safe for concurrent use. Callers that receive intents
// from more than one source (for example a two-player websocket session)
// must serialize them.
package game
