package log

import (
	"context"
	"fmt"
	"reflect"

	"github.com/mwantia/fabric/pkg/container"
)

var loggerServiceType = reflect.TypeOf((*LoggerService)(nil)).Elem()

// Resolve looks up the LoggerService registered in sc and returns it, or a
// child named after name when name is not empty.
func Resolve(ctx context.Context, sc *container.ServiceContainer, name string) (LoggerService, error) {
	ok, resolved := sc.ResolveByType(ctx, loggerServiceType)
	if !ok {
		return nil, fmt.Errorf("no logger service registered")
	}

	logger, ok := resolved.(LoggerService)
	if !ok {
		return nil, fmt.Errorf("resolved service %T is not a LoggerService", resolved)
	}

	if name != "" {
		return logger.Named(name), nil
	}
	return logger, nil
}
