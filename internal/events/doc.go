// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package events carries domain events from the stores to the realtime layer.

Events are published after the database transaction that caused them has
committed, so a subscriber never sees a change that was rolled back.

Topics:

  - coins.changed: a ledger entry moved coins (published by LedgerCommitHook)
  - message.sent: a direct message was stored
  - skill_request.updated: a request was created, accepted or rejected
  - application.updated: an internship application changed status
  - community.joined: a member joined and the creator was rewarded

Transport:

The Bus is a Watermill publisher/subscriber pair. Without configuration it
is an in-process gochannel. With messaging.nats_url it uses core NATS via
watermill-nats, and messaging.embedded_nats starts an in-process NATS server
for single-node deployments that still want a real broker.

Delivery:

A Forwarder runs a Watermill router that decodes every event and hands it to
a Sink, normally the websocket hub, which pushes it to the connections of the
users listed in Event.Recipients.
*/
package events
