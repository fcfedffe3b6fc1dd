// Package domain contains the core entities shared across the application:
// persisted subdomain records and the batches of newly observed hostnames
// handed to the notifier. The types carry no infrastructure concerns so they
// can be used from any layer.
package domain
