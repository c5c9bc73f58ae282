// Package handlers contains the HTTP handlers of the contentfeed server.
//
// This package provides handlers for:
//   - Syndication artifacts (RSS feed, sitemap)
//   - Open Graph preview images
//   - Listing and detail pages of blog posts, projects, case studies and team members
//   - Health reporting
//
// Every handler reads one immutable content snapshot per request. Missing
// entities are recovered locally into fallback pages and images; all other
// failures are written through the foundation/errors HTTP adapter.
package handlers
