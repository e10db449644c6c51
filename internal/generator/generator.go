// Package generator 为类型定义产出样本值。
//
// 每个标签的生成器产出符合该定义格式契约的字符串，供对齐
// 检查和演示使用。随机类型的合成生成不在本工具范围内，
// 这里提供基于定义内置样本的实现。
package generator

import (
	"fmt"
	"math/rand"

	"finetype-analyzer/internal/taxonomy"
)

// Generator 样本生成器接口
type Generator interface {
	// Generate 为标签产出一个样本值
	Generate(label string) (string, error)
}

// UnknownLabelError 标签在 taxonomy 中不存在
type UnknownLabelError struct {
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("未知标签: %s", e.Label)
}

// NotImplementedError 标签没有可用的生成器
type NotImplementedError struct {
	Label string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("标签没有实现生成器: %s", e.Label)
}

// Sample 一个带标签的样本
type Sample struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// SampleGenerator 基于定义内置样本的生成器。
// 定义没有记录样本时视为生成器缺失。
type SampleGenerator struct {
	tax *taxonomy.Taxonomy
	rng *rand.Rand
}

// NewSampleGenerator 创建样本生成器
func NewSampleGenerator(tax *taxonomy.Taxonomy) *SampleGenerator {
	return NewSeededSampleGenerator(tax, rand.Int63())
}

// NewSeededSampleGenerator 创建固定种子的样本生成器，结果可复现
func NewSeededSampleGenerator(tax *taxonomy.Taxonomy, seed int64) *SampleGenerator {
	return &SampleGenerator{tax: tax, rng: rand.New(rand.NewSource(seed))}
}

// Generate 从标签定义记录的样本中随机取一个
func (g *SampleGenerator) Generate(label string) (string, error) {
	def, ok := g.tax.Get(label)
	if !ok {
		return "", &UnknownLabelError{Label: label}
	}
	if len(def.Samples) == 0 {
		return "", &NotImplementedError{Label: label}
	}
	return def.Samples[g.rng.Intn(len(def.Samples))], nil
}

// GenerateAll 为指定优先级及以上的全部标签各产出 n 个样本
func (g *SampleGenerator) GenerateAll(minPriority uint8, n int) []Sample {
	var samples []Sample
	for _, def := range g.tax.AtPriority(minPriority) {
		key := def.Key()
		for i := 0; i < n; i++ {
			text, err := g.Generate(key)
			if err != nil {
				break
			}
			samples = append(samples, Sample{Text: text, Label: key})
		}
	}
	return samples
}
