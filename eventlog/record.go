/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package eventlog

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	liberr "github.com/sabouaram/logsrvd/errors"
)

var validate = validator.New()

// jsonRecord is Record's wire shape: metadata values render as a plain JSON
// value per their Kind (spec §4.7: "string-list rendered as a JSON array in
// order"), rather than as the tagged {Kind,Int,Str,List} union Record itself
// uses internally.
type jsonRecord struct {
	Kind           string                 `json:"kind"`
	SubmissionTime string                 `json:"submission_time"`
	User           string                 `json:"user"`
	Host           string                 `json:"host"`
	SessionID      string                 `json:"session_id"`
	Reason         string                 `json:"reason,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Validate checks the required fields of a Record and that every metadata
// value carries a recognized Kind (spec §4.7: "unknown variants are a
// failure").
func Validate(r Record) liberr.Error {
	if err := validate.Struct(r); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); ok {
			return ErrorValidate.Error(err)
		}

		out := ErrorValidate.Error()
		for _, fe := range err.(validator.ValidationErrors) {
			out.Add(fmt.Errorf("field '%s' fails constraint '%s'", fe.Field(), fe.ActualTag()))
		}
		return out
	}

	for key, v := range r.Metadata {
		switch v.Kind {
		case MetaInt, MetaString, MetaStringList:
			// recognized
		default:
			return ErrorUnknownMetaKind.Error(fmt.Errorf("metadata key %q", key))
		}
	}

	return nil
}

// Encode validates r and renders it as one JSON line suitable for appending
// to a session's "log" file.
func Encode(r Record) ([]byte, liberr.Error) {
	if err := Validate(r); err != nil {
		return nil, err
	}

	jr := jsonRecord{
		Kind:           r.Kind.String(),
		SubmissionTime: r.SubmissionTime.String(),
		User:           r.User,
		Host:           r.Host,
		SessionID:      r.SessionID,
		Reason:         r.Reason,
	}

	if len(r.Metadata) > 0 {
		jr.Metadata = make(map[string]interface{}, len(r.Metadata))
		for key, v := range r.Metadata {
			switch v.Kind {
			case MetaInt:
				jr.Metadata[key] = v.Int
			case MetaString:
				jr.Metadata[key] = v.Str
			case MetaStringList:
				jr.Metadata[key] = v.List
			}
		}
	}

	buf, e := json.Marshal(jr)
	if e != nil {
		return nil, ErrorEncode.Error(e)
	}

	buf = append(buf, '\n')
	return buf, nil
}
