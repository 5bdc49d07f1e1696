// Command dtctl inspects, decodes and edits Flattened Device Tree blobs.
package main

func main() {
	execute()
}
