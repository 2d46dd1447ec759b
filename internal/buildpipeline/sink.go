package buildpipeline

// ChannelSink sends every event to the channel. Sends block, so the reader
// must keep draining until the producer is finished.
type ChannelSink chan<- Event

func (s ChannelSink) OnEvent(ev Event) {
	if s != nil {
		s <- ev
	}
}
