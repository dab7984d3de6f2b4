// Package catalog resolves a shopper's variation choices on a product page.
//
// It is pure: given a product snapshot and a selection it derives the matching
// variation, price, stock and image set. Network effects live in the
// storefront package.
package catalog
