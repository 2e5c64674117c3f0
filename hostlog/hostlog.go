/**
 * Copyright (c) 2021, The Hermes Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

// Package hostlog forwards log records to the host environment's logging
// facility. It plugs into zerolog as a LevelWriter: each record is gated on
// the host's own loggability check, translated to a host priority and handed
// to the facility with a tag and the record's message.
package hostlog

import (
	"github.com/botobag/hermes/host"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

// TagFieldName is the record field overriding the writer's default tag for a
// single record (e.g. log.Info().Str(hostlog.TagFieldName, "net").Msg(...)).
const TagFieldName = "tag"

// LevelPriority converts a zerolog level into a host logging priority.
func LevelPriority(level zerolog.Level) host.LogPriority {
	switch level {
	case zerolog.TraceLevel:
		return host.LogVerbose
	case zerolog.DebugLevel:
		return host.LogDebug
	case zerolog.InfoLevel:
		return host.LogInfo
	case zerolog.WarnLevel:
		return host.LogWarn
	case zerolog.ErrorLevel:
		return host.LogError
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return host.LogAssert
	default:
		return host.LogInfo
	}
}

// Writer is a zerolog.LevelWriter that delivers records to the host logging
// facility. Records written from threads with no attachment to the host are
// dropped: the facility is unreachable from there.
type Writer struct {
	vm  host.VM
	tag string
}

var _ zerolog.LevelWriter = (*Writer)(nil)

// NewWriter creates a Writer delivering to vm's logging facility with the
// given default tag.
func NewWriter(vm host.VM, tag string) *Writer {
	return &Writer{vm: vm, tag: tag}
}

// New returns a ready-to-use logger forwarding to vm's logging facility.
func New(vm host.VM, tag string) zerolog.Logger {
	return zerolog.New(NewWriter(vm, tag))
}

// Write implements io.Writer. Records arriving without a level (zerolog's
// Log event) are forwarded at the default informational priority.
func (writer *Writer) Write(p []byte) (int, error) {
	return writer.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (writer *Writer) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	env, err := writer.vm.Env()
	if err != nil {
		return len(p), nil
	}

	tag := writer.tag
	if t := jsoniter.Get(p, TagFieldName).ToString(); t != "" {
		tag = t
	}

	priority := LevelPriority(level)
	loggable, err := env.IsLoggable(tag, priority)
	if err != nil {
		return 0, err
	}
	if !loggable {
		return len(p), nil
	}

	msg := jsoniter.Get(p, zerolog.MessageFieldName).ToString()
	if err := env.Println(priority, tag, msg); err != nil {
		return 0, err
	}
	return len(p), nil
}
