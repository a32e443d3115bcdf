// Package emb wraps an ONNX sentence-transformer (MiniLM-class) model behind
// a small encoder: tokenize, run the session, mean-pool over the attention
// mask and L2-normalize.
package emb

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// Config locates the runtime, model and tokenizer assets.
type Config struct {
	OrtDLL        string
	ModelPath     string
	TokenizerPath string
	MaxSeqLen     int
}

var ortInit sync.Once

// Encoder owns one ORT session and its tokenizer. Encode is not safe for
// concurrent use; callers serialize (the pipeline embeds sequentially).
type Encoder struct {
	session   *ort.DynamicAdvancedSession
	tokenizer *tokenizer.Tokenizer
	maxSeqLen int
}

// Init loads the tokenizer and creates the ORT session.
func (e *Encoder) Init(cfg Config) error {
	if cfg.ModelPath == "" {
		return errors.New("model path is required")
	}
	if cfg.TokenizerPath == "" {
		return errors.New("tokenizer path is required")
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 512
	}

	var initErr error
	ortInit.Do(func() {
		if cfg.OrtDLL != "" {
			ort.SetSharedLibraryPath(cfg.OrtDLL)
		}
		initErr = ort.InitializeEnvironment()
	})
	if initErr != nil {
		return fmt.Errorf("initialize onnxruntime: %w", initErr)
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"},
		nil,
	)
	if err != nil {
		return fmt.Errorf("create ort session: %w", err)
	}

	e.session = session
	e.tokenizer = tk
	e.maxSeqLen = cfg.MaxSeqLen
	return nil
}

// Close releases the ORT session.
func (e *Encoder) Close() {
	if e == nil {
		return
	}
	if e.session != nil {
		_ = e.session.Destroy()
		e.session = nil
	}
	e.tokenizer = nil
}

// Encode returns the pooled, normalized sentence vector for one text.
func (e *Encoder) Encode(text string) ([]float32, error) {
	if e == nil || e.session == nil {
		return nil, errors.New("encoder is not initialized")
	}
	encoding, err := e.tokenizer.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	ids := encoding.Ids
	mask := encoding.AttentionMask
	types := encoding.TypeIds
	if len(ids) > e.maxSeqLen {
		ids = ids[:e.maxSeqLen]
		mask = mask[:e.maxSeqLen]
		types = types[:e.maxSeqLen]
	}
	if len(ids) == 0 {
		return nil, errors.New("empty token sequence")
	}

	n := len(ids)
	shape := ort.NewShape(1, int64(n))
	idsTensor, err := ort.NewTensor(shape, toInt64(ids))
	if err != nil {
		return nil, fmt.Errorf("input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, toInt64(mask))
	if err != nil {
		return nil, fmt.Errorf("attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()
	typeTensor, err := ort.NewTensor(shape, toInt64(types))
	if err != nil {
		return nil, fmt.Errorf("token_type_ids tensor: %w", err)
	}
	defer typeTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := e.session.Run([]ort.Value{idsTensor, maskTensor, typeTensor}, outputs); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}
	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output type %T", outputs[0])
	}
	defer hidden.Destroy()

	outShape := hidden.GetShape()
	if len(outShape) != 3 {
		return nil, fmt.Errorf("unexpected output shape %v", outShape)
	}
	seqLen := int(outShape[1])
	dim := int(outShape[2])
	return meanPool(hidden.GetData(), mask, seqLen, dim), nil
}

// meanPool averages token vectors weighted by the attention mask and
// L2-normalizes the result.
func meanPool(data []float32, mask []int, seqLen, dim int) []float32 {
	out := make([]float32, dim)
	var count float32
	for t := 0; t < seqLen && t < len(mask); t++ {
		if mask[t] == 0 {
			continue
		}
		count++
		base := t * dim
		for d := 0; d < dim; d++ {
			out[d] += data[base+d]
		}
	}
	if count == 0 {
		return out
	}
	var norm float64
	for d := range out {
		out[d] /= count
		norm += float64(out[d]) * float64(out[d])
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for d := range out {
			out[d] *= inv
		}
	}
	return out
}

func toInt64(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}
