// Package bot implements the conversation state machine and its pipelines.
//
// The Manager validates every inbound event against the user's current mode,
// applies the mode transition, and runs the encode or decode pipeline when a
// transition calls for one. Per-user serialization comes from the session
// registry; artifact lifetimes are owned by the artifact store. The Manager
// talks to the outside world only through the Transport, Codec and Recorder
// interfaces defined here, so the whole machine is testable with fakes.
//
// Transition rules (mode × event):
//
//	Idle          + start-text command  → prompt, AwaitingText
//	Idle          + start-image command → prompt, AwaitingImage
//	AwaitingText  + text ≤ limit        → encode pipeline, Idle
//	AwaitingText  + text > limit        → length error, AwaitingText
//	AwaitingImage + image               → decode pipeline, Idle
//	AwaitingText/AwaitingImage + cancel → ack, Idle
//	any           + unrecognized        → guidance, mode unchanged
//
// Informational commands (start, help, info, stats) answer from any mode and
// never change it.
package bot
