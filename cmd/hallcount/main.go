// Command hallcount runs the attendance matcher and inspects stored sessions.
package main

func main() {
	Execute()
}
