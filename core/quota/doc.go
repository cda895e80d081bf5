// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package quota enforces a per-user sliding-window upload quota.

A Keeper tracks the timestamps of completed uploads per user and decides
whether a new upload may proceed. Timestamps older than the window are
pruned lazily on each check.
*/
package quota
