// Package models holds the GORM row types behind the repositories. Domain
// types carry no tags; each model converts to and from its aggregate with
// ToDomain and a FromDomain counterpart. Carts live in users.cart_data as a
// JSON column, and outbox rows mirror shared.OutboxEntry field for field.
package models
