package transform

// TransformBuilderOption is a functional option for configuring a Transform during construction.
type TransformBuilderOption func(*Transform)

// WithTranslation sets the local translation.
func WithTranslation(x, y, z float32) TransformBuilderOption {
	return func(t *Transform) {
		t.Translation = [3]float32{x, y, z}
	}
}

// WithRotation sets the local rotation quaternion in (x, y, z, w) order.
func WithRotation(q [4]float32) TransformBuilderOption {
	return func(t *Transform) {
		t.Rotation = q
	}
}

// WithScale sets the local per-axis scale.
func WithScale(x, y, z float32) TransformBuilderOption {
	return func(t *Transform) {
		t.Scale = [3]float32{x, y, z}
	}
}

// WithUniformScale sets the same scale on every axis.
func WithUniformScale(s float32) TransformBuilderOption {
	return WithScale(s, s, s)
}
