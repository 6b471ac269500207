package models

import "encoding/json"

// ConversionJob describes a stored video blob awaiting audio extraction.
// It is published exactly once per successful upload; the converter fills
// MP3FID when it writes the result back.
type ConversionJob struct {
	VideoFID string `json:"video_fid"`
	MP3FID   string `json:"mp3_fid"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

// NewConversionJob builds a job for a freshly stored video
func NewConversionJob(videoFID string, claims Claims) ConversionJob {
	return ConversionJob{
		VideoFID: videoFID,
		Username: claims.Username,
		Admin:    claims.Admin,
	}
}

// Marshal serializes the job to its wire format
func (j ConversionJob) Marshal() ([]byte, error) {
	return json.Marshal(j)
}
