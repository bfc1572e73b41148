/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package shapes

import (
	. "github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())

	shape0 := Make(Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.False(t, shape0.Unknown)
	require.Equal(t, 0, shape0.Rank())
	require.Len(t, shape0.Dimensions, 0)
	require.Equal(t, 1, shape0.Size())
	require.Equal(t, 8, int(shape0.Memory()))

	shape1 := Make(Float32, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.Equal(t, 3, shape1.Rank())
	require.Len(t, shape1.Dimensions, 3)
	require.Equal(t, 4*3*2, shape1.Size())
	require.Equal(t, 4*4*3*2, int(shape1.Memory()))
	require.Equal(t, 3, shape1.Dim(1))
	require.Equal(t, 2, shape1.Dim(-1))
	require.Panics(t, func() { shape1.Dim(3) })

	require.Equal(t, "(Float32)[4 3 2]", shape1.String())
	require.Equal(t, "(Float64)", shape0.String())
}

func TestUnknown(t *testing.T) {
	unknown := Unknown()
	require.True(t, unknown.Ok())
	require.True(t, unknown.Unknown)
	require.False(t, unknown.IsScalar())
	require.Equal(t, 0, unknown.Rank())
	require.Equal(t, "(unknown)", unknown.String())

	// Unknown shapes compare equal to each other and to nothing else.
	require.True(t, unknown.Equal(Unknown()))
	require.False(t, unknown.Equal(Make(Float32, 2)))
	require.False(t, Make(Float32, 2).Equal(unknown))
}

func TestEqualAndClone(t *testing.T) {
	shape := Make(Float32, 2, 3)
	require.True(t, shape.Equal(Make(Float32, 2, 3)))
	require.False(t, shape.Equal(Make(Float64, 2, 3)))
	require.False(t, shape.Equal(Make(Float32, 3, 2)))

	clone := shape.Clone()
	require.True(t, shape.Equal(clone))
	clone.Dimensions[0] = 7
	require.Equal(t, 2, shape.Dimensions[0])
}

func TestScalar(t *testing.T) {
	shape := Scalar[float32]()
	require.True(t, shape.IsScalar())
	require.Equal(t, Float32, shape.DType)
}
