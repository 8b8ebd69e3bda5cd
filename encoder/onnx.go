package encoder

import (
	"context"
	"fmt"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

const defaultMaxSeqLen = 256

// The onnxruntime environment is process-wide and must be initialized
// exactly once, no matter how many encoders are created.
var (
	ortInitOnce sync.Once
	ortInitErr  error
)

type ONNXConfig struct {
	// ModelPath points at the exported encoder model (.onnx).
	ModelPath string
	// TokenizerPath points at the HuggingFace tokenizer.json that shipped
	// with the model.
	TokenizerPath string
	// Library is the path to the onnxruntime shared library. Empty lets
	// the runtime resolve its platform default name.
	Library string
	// MaxSeqLen caps token sequences before inference.
	MaxSeqLen int
}

// ONNX runs a sentence-transformer encoder in-process through onnxruntime,
// with attention-masked mean pooling over the last hidden state. Inference
// is serialized: the session is not safe for concurrent Run calls.
type ONNX struct {
	tk        *tokenizer.Tokenizer
	session   *ort.DynamicAdvancedSession
	maxSeqLen int
	mu        sync.Mutex
}

func NewONNX(cfg ONNXConfig) (*ONNX, error) {
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = defaultMaxSeqLen
	}

	ortInitOnce.Do(func() {
		if cfg.Library != "" {
			ort.SetSharedLibraryPath(cfg.Library)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("failed to initialize onnxruntime: %w", ortInitErr)
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer %s: %w", cfg.TokenizerPath, err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open onnx model %s: %w", cfg.ModelPath, err)
	}

	return &ONNX{
		tk:        tk,
		session:   session,
		maxSeqLen: cfg.MaxSeqLen,
	}, nil
}

func (o *ONNX) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := o.encode(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to encode document %d: %w", i, err)
		}
		out[i] = vec
	}

	return out, nil
}

func (o *ONNX) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return o.encode(ctx, text)
}

func (o *ONNX) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return nil
	}

	err := o.session.Destroy()
	o.session = nil

	return err
}

func (o *ONNX) encode(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enc, err := o.tk.EncodeSingle(NormalizeText(text), true)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize: %w", err)
	}

	ids := truncate(enc.Ids, o.maxSeqLen)
	mask := truncate(enc.AttentionMask, o.maxSeqLen)
	typeIds := truncate(enc.TypeIds, o.maxSeqLen)
	if len(ids) == 0 {
		return nil, fmt.Errorf("tokenizer produced no tokens")
	}

	seqLen := int64(len(ids))

	idsTensor, err := ort.NewTensor(ort.NewShape(1, seqLen), toInt64(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()

	maskTensor, err := ort.NewTensor(ort.NewShape(1, seqLen), toInt64(mask))
	if err != nil {
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	typeTensor, err := ort.NewTensor(ort.NewShape(1, seqLen), toInt64(typeIds))
	if err != nil {
		return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
	}
	defer typeTensor.Destroy()

	outputs := []ort.Value{nil}

	o.mu.Lock()
	err = o.session.Run([]ort.Value{idsTensor, maskTensor, typeTensor}, outputs)
	o.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("onnx inference failed: %w", err)
	}

	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}
	defer hidden.Destroy()

	shape := hidden.GetShape()
	if len(shape) != 3 {
		return nil, fmt.Errorf("unexpected output shape %v", shape)
	}

	return meanPool(hidden.GetData(), mask, int(shape[2])), nil
}

// meanPool averages token vectors across the sequence, counting only
// positions the attention mask keeps. data is laid out [seq, hidden]
// row-major for a batch of one.
func meanPool(data []float32, mask []int, hidden int) []float32 {
	pooled := make([]float64, hidden)

	var kept float64
	for tok := 0; tok < len(mask) && (tok+1)*hidden <= len(data); tok++ {
		if mask[tok] == 0 {
			continue
		}
		kept++

		base := tok * hidden
		for j := 0; j < hidden; j++ {
			pooled[j] += float64(data[base+j])
		}
	}
	if kept == 0 {
		kept = 1
	}

	out := make([]float32, hidden)
	for j := range pooled {
		out[j] = float32(pooled[j] / kept)
	}

	return out
}

func truncate(vals []int, max int) []int {
	if len(vals) > max {
		return vals[:max]
	}

	return vals
}

func toInt64(vals []int) []int64 {
	out := make([]int64, len(vals))
	for i, v := range vals {
		out[i] = int64(v)
	}

	return out
}
