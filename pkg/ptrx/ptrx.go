package ptrx

import "time"

// Helpers para obtener punteros a literales

func String(s string) *string { return &s }

func Int(i int) *int { return &i }

func Int64(i int64) *int64 { return &i }

func Bool(b bool) *bool { return &b }

func Float64(f float64) *float64 { return &f }

func Time(t time.Time) *time.Time { return &t }
