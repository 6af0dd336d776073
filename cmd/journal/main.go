// Command journal crawls a monthly-partitioned blog archive into a single
// markdown corpus and filters the poems out of it.
//
// Usage:
//
//	journal                 crawl, then classify
//	journal crawl           crawl only
//	journal classify        classify an existing corpus
//	journal entry <url>     probe a single entry page
package main

func main() {
	Execute()
}
