// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package bot is the Telegram surface of the relay.

It long-polls for updates, answers the /start command, and relays photos
sent in private chats to the image host, subject to the per-user quota.
*/
package bot
