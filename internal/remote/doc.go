// Package remote is a client for the JSON API of a running HTTP inspector.
//
// It lets one machine decode packets on another, typically an instance
// found with the discovery package:
//
//	client := remote.NewClientWithURL(inst.BaseURL())
//	resp, err := client.Decode(ctx, "0x1a0102030050...", "")
//
// Requests that fail at the network level or with a 5xx status are retried
// with exponential backoff. A packet the inspector rejects is not retried;
// IsDecodeError reports it.
package remote
