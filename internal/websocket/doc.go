// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package websocket pushes domain events to signed-in users.

Clients connect to /api/v1/ws with their session cookie or bearer token.
The Hub indexes connections by user ID, so an event reaches only the users
listed in its recipients (both sides of a transfer, the receiver of a
message, the requester and owner of a skill request).

Frames written to clients:

	{"type":"coins.changed","id":"...","occurred_at":"...","data":{...}}

type is the event topic and data is the topic payload. Clients may send
{"type":"ping"} and receive {"type":"pong"}.

Each client has two goroutines: readPump handles pings and detects closed
connections, writePump drains the send buffer and keeps the connection
alive with protocol pings. A client whose buffer is full is disconnected
rather than allowed to stall delivery to others.

The Hub implements events.Sink and suture.Service.
*/
package websocket
