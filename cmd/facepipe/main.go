// Command facepipe runs camera frames through the analysis pipeline and
// serves the annotated result as an MJPEG stream.
package main

func main() {
	Execute()
}
