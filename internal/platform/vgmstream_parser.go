package platform

import (
	"encoding/json"
	"fmt"
)

// VgmstreamInfo is the subset of `vgmstream -mI` JSON output the editor uses
type VgmstreamInfo struct {
	Version         string                `json:"version"`
	SampleRate      int                   `json:"sampleRate"`
	Channels        int                   `json:"channels"`
	NumberOfSamples int                   `json:"numberOfSamples"`
	EncodingType    string                `json:"encoding"`
	LayoutType      string                `json:"layout"`
	MetadataSource  string                `json:"metadataSource"`
	LoopingInfo     *VgmstreamLoopingInfo `json:"loopingInfo"`
	StreamInfo      *VgmstreamStreamInfo  `json:"streamInfo"`
}

// VgmstreamLoopingInfo holds loop boundaries in samples
type VgmstreamLoopingInfo struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// VgmstreamStreamInfo describes the selected subsong
type VgmstreamStreamInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// ParseVgmstreamInfo decodes `vgmstream -mI` output
func ParseVgmstreamInfo(data []byte) (*VgmstreamInfo, error) {
	var info VgmstreamInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse vgmstream metadata: %w", err)
	}
	return &info, nil
}

// LoopPoints returns the loop range when the stream loops forward
func (v *VgmstreamInfo) LoopPoints() (start, end int, ok bool) {
	if v == nil || v.LoopingInfo == nil {
		return 0, 0, false
	}
	s, e := v.LoopingInfo.Start, v.LoopingInfo.End
	if s < 0 || e <= s {
		return 0, 0, false
	}
	return int(s), int(e), true
}
