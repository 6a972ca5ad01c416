/*
facepipe connects a live camera feed to an on device face, body or document
analysis engine and draws the results over the live view.

Frames are handed to a Pipeline by the capture source.  The pipeline keeps
at most one frame in analysis at a time and drops any frame that arrives
while a result is outstanding, so the displayed overlay always reflects the
newest frame the engine could keep up with.  Each analysed frame is
converted to the engine's pixel layout, oriented, analysed, and then
rendered with its overlay on the display goroutine.

The demo command in cmd/facepipe wires a webcam, an OpenCV Haar cascade
engine and an MJPEG stream together.
*/
package facepipe
