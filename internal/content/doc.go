// Package content holds the immutable, insertion-ordered record stores that
// every contentfeed artifact is derived from: blog posts, projects and team
// members. A Repository is loaded once from the JSON datasets and is never
// mutated afterwards; preview mode replaces it wholesale.
package content
