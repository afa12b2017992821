// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the runtime of the syncctl command.
//
// It wires the local store, the remote data source, the sync engine and its
// metrics into a single process lifecycle: a one-shot sync, or a periodic
// sync worker with an optional status server.
package client
