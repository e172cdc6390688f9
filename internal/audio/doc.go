// Package audio extracts mono audio tracks from video files with ffmpeg.
package audio
