package media

// Selection is the set of streams a resource downloads. It is one of
// VideoAudio, VideoOnly or AudioOnly.
type Selection interface {
	streams() []*StreamInfo
}

// VideoAudio downloads a video stream and, unless the video is
// progressive, a separate audio stream to merge with it.
type VideoAudio struct {
	Video *StreamInfo
	Audio *StreamInfo
}

// VideoOnly downloads a video stream without audio.
type VideoOnly struct {
	Video *StreamInfo
}

// AudioOnly downloads an audio stream.
type AudioOnly struct {
	Audio *StreamInfo
}

func (s VideoAudio) streams() []*StreamInfo {
	if s.Audio == nil {
		return []*StreamInfo{s.Video}
	}
	return []*StreamInfo{s.Video, s.Audio}
}

func (s VideoOnly) streams() []*StreamInfo { return []*StreamInfo{s.Video} }

func (s AudioOnly) streams() []*StreamInfo { return []*StreamInfo{s.Audio} }
