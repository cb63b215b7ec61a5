package services

import (
	"fmt"
	"regexp"
)

var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([^&?/\s]+)`)

// YouTubeID extracts the video id from the common YouTube URL shapes.
func YouTubeID(videoURL string) (string, bool) {
	m := youtubeIDPattern.FindStringSubmatch(videoURL)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// YouTubeThumbnail returns the max-resolution still for a YouTube URL.
func YouTubeThumbnail(videoURL string) (string, bool) {
	id, ok := YouTubeID(videoURL)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", id), true
}
