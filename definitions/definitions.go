// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package definitions

const (
	RootBucket       = `root`
	ExpressionBucket = `ExpressionBucket`
	ResultBucket     = `ResultBucket`
	FormatVersion    = `FormatVersion`
)

var (
	RootBucketBytes       = []byte(RootBucket)
	ExpressionBucketBytes = []byte(ExpressionBucket)
	ResultBucketBytes     = []byte(ResultBucket)
	FormatVersionBytes    = []byte(FormatVersion)
)

// CurrentFormatVersion is written to the root bucket on initialization.
// Bump it when the stored value shapes change.
const CurrentFormatVersion = 1
