package vits

import (
	"encoding/json"
	"fmt"
	"os"
)

// SampleRate 是模型输出波形的采样率。
const SampleRate = 22050

// HParams 是 VITS 训练配置文件（config.json）中合成需要的部分。
type HParams struct {
	Data     DataParams     `json:"data"`
	Train    TrainParams    `json:"train"`
	Speakers []string       `json:"speakers"`
	Model    map[string]any `json:"model"`
}

// DataParams 描述文本与音频前端。
type DataParams struct {
	TextCleaners []string `json:"text_cleaners"`
	SamplingRate int      `json:"sampling_rate"`
	FilterLength int      `json:"filter_length"`
	HopLength    int      `json:"hop_length"`
	AddBlank     bool     `json:"add_blank"`
	NSpeakers    int      `json:"n_speakers"`
}

// TrainParams 只保留推理形状相关字段。
type TrainParams struct {
	SegmentSize int `json:"segment_size"`
}

// LoadHParams 读取并解析超参数文件。
func LoadHParams(path string) (*HParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取模型配置文件失败: %w", err)
	}
	return ParseHParams(data)
}

// ParseHParams 解析超参数 JSON。text_cleaners 为空视为配置错误。
func ParseHParams(data []byte) (*HParams, error) {
	var hp HParams
	if err := json.Unmarshal(data, &hp); err != nil {
		return nil, fmt.Errorf("解析模型配置文件失败: %w", err)
	}
	if len(hp.Data.TextCleaners) == 0 || hp.Data.TextCleaners[0] == "" {
		return nil, fmt.Errorf("模型配置缺少 data.text_cleaners")
	}
	if hp.Data.NSpeakers < 0 {
		return nil, fmt.Errorf("data.n_speakers 不能为负数: %d", hp.Data.NSpeakers)
	}
	return &hp, nil
}

// Profile 返回用于构建词表的符号方案（首个 cleaner 名称）。
func (hp *HParams) Profile() string {
	return hp.Data.TextCleaners[0]
}

// SpecChannels 返回线性谱通道数 filter_length/2+1。
func (hp *HParams) SpecChannels() int {
	return hp.Data.FilterLength/2 + 1
}

// SegmentFrames 返回训练片段的帧数 segment_size/hop_length。
func (hp *HParams) SegmentFrames() int {
	if hp.Data.HopLength == 0 {
		return 0
	}
	return hp.Train.SegmentSize / hp.Data.HopLength
}

// SpeakerCount 返回多说话人模型的说话人数量，单说话人时为 0。
func (hp *HParams) SpeakerCount(multiSpeaker bool) int {
	if !multiSpeaker {
		return 0
	}
	return hp.Data.NSpeakers
}

// SpeakerName 返回说话人 id 对应的名称（若配置中提供）。
func (hp *HParams) SpeakerName(id int) string {
	if id >= 0 && id < len(hp.Speakers) {
		return hp.Speakers[id]
	}
	return ""
}
