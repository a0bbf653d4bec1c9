package tracing

import (
	"fmt"
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// InitTracer 初始化 Jaeger tracer 并设为全局。
// HTTP 中间件（server.Tracing）从全局 tracer 取 span，
// 所以初始化失败时服务可以降级为 noop tracer 继续跑。
// sampler 是 const 采样概率，越界值收敛到 [0,1]。
func InitTracer(serviceName, agentHostPort string, sampler float64) (opentracing.Tracer, io.Closer, error) {
	if agentHostPort == "" {
		agentHostPort = "localhost:6831"
	}
	if sampler < 0 {
		sampler = 0
	} else if sampler > 1 {
		sampler = 1
	}

	cfg := &jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: sampler,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: agentHostPort,
		},
	}

	tracer, closer, err := cfg.NewTracer(jaegercfg.Logger(jaeger.StdLogger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init jaeger tracer: %w", err)
	}

	opentracing.SetGlobalTracer(tracer)
	return tracer, closer, nil
}
