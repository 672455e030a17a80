package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "O2O", O2O.String())
	assert.Equal(t, "O2M", O2M.String())
	assert.Equal(t, "M2O", M2O.String())
	assert.Equal(t, "M2M", M2M.String())
	assert.Equal(t, "Unknown", Unk.String())

	assert.Equal(t, M2O, O2M.Inverse())
	assert.Equal(t, O2M, M2O.Inverse())
	assert.Equal(t, O2O, O2O.Inverse())
	assert.Equal(t, M2M, M2M.Inverse())
}

func TestRelText(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	for rel, name := range relNames {
		text, err := rel.MarshalText()
		require.NoError(err)
		require.Equal(name, string(text))

		var got Rel
		require.NoError(got.UnmarshalText(text))
		require.Equal(rel, got)
	}

	// Short names are accepted too.
	var r Rel
	require.NoError(r.UnmarshalText([]byte("m2m")))
	require.Equal(M2M, r)
	require.NoError(r.UnmarshalText([]byte("O2M")))
	require.Equal(O2M, r)

	require.Error(r.UnmarshalText([]byte("one_to_none")))
	_, err := Unk.MarshalText()
	require.Error(err)
}

func TestGraphTypes(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	g := NewGraph()
	user := g.MustAddType(&EntityType{Name: "User", Domain: "auth"})
	require.Equal("User", user.String())

	got, ok := g.Type("User")
	require.True(ok)
	require.Same(user, got)

	_, ok = g.Type("Missing")
	require.False(ok)

	require.Error(g.AddType(&EntityType{Name: "User"}), "redeclared type")
	require.Error(g.AddType(&EntityType{}), "empty name")
	require.Panics(func() { g.MustAddType(&EntityType{Name: "User"}) })

	require.Len(g.Types(), 1)
}

func TestAddRelation(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	g := NewGraph()
	user := g.MustAddType(&EntityType{Name: "User"})
	post := g.MustAddType(&EntityType{Name: "Post"})

	require.NoError(g.AddRelation(post, "author", user, M2O))

	author, ok := post.Relation("author")
	require.True(ok)
	require.Equal(M2O, author.Rel)
	require.Equal("fk", author.Kind)
	require.Same(user, author.Type)
	require.Same(post, author.Owner)
	require.False(author.IsInverse())

	// Reverse accessor: underscored owner name, pluralized for the
	// to-many side.
	posts, ok := user.Relation("posts")
	require.True(ok)
	require.Equal(O2M, posts.Rel)
	require.Equal("rev_fk", posts.Kind)
	require.Same(post, posts.Type)
	require.True(posts.IsInverse())
	require.Same(author, posts.Ref)
	require.Same(posts, author.Ref)
	require.Equal("posts", author.RefName())
	require.Equal("Post.author", author.String())
}

func TestReverseNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "model_two", reverseName("ModelTwo", M2O))
	assert.Equal(t, "model_two", reverseName("ModelTwo", O2O))
	assert.Equal(t, "model_twos", reverseName("ModelTwo", O2M))
	assert.Equal(t, "user_profiles", reverseName("UserProfile", M2M))
}

func TestAddRelationErrors(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	g := NewGraph()
	a := g.MustAddType(&EntityType{Name: "A"})
	b := g.MustAddType(&EntityType{Name: "B"})

	require.Error(g.AddRelation(nil, "x", b, M2O), "nil owner")
	require.Error(g.AddRelation(a, "", b, M2O), "empty name")
	require.Error(g.AddRelation(a, "x", b, Unk), "unknown cardinality")

	require.NoError(g.AddRelation(a, "b", b, M2O))
	require.Error(g.AddRelation(a, "b", b, M2O), "redeclared field")

	// A self O2O derives a reverse accessor colliding with the forward
	// field name unless RefName disambiguates.
	require.NoError(g.AddRelation(b, "other", b, O2O, RefName("other_of")))
	err := g.AddRelation(b, "b", b, O2O)
	require.Error(err)
	require.Contains(err.Error(), "RefName")
}

func TestPolymorphicRelation(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	g := NewGraph()
	a := g.MustAddType(&EntityType{Name: "A"})
	require.NoError(g.AddRelation(a, "target", nil, M2O))

	f, ok := a.Relation("target")
	require.True(ok)
	require.Nil(f.Type)
	require.Nil(f.Ref)
	require.Empty(f.RefName())
}

func TestStorageRel(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	g := NewGraph()
	user := g.MustAddType(&EntityType{Name: "User", Table: "users"})
	post := g.MustAddType(&EntityType{Name: "Post", Table: "posts"})
	require.NoError(g.AddRelation(post, "author", user, M2O, Storage("posts", "author_id")))

	author, _ := post.Relation("author")
	posts, _ := user.Relation("posts")

	require.NotNil(author.Storage)
	require.Nil(posts.Storage)
	// The reverse accessor shares the forward field's storage info.
	require.Same(author.Storage, posts.StorageRel())
	require.Equal("author_id", author.StorageRel().Column())

	require.Panics(func() { (&Relation{Table: "t"}).Column() })
}

func TestRelationOrder(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	g := NewGraph()
	a := g.MustAddType(&EntityType{Name: "A"})
	b := g.MustAddType(&EntityType{Name: "B"})
	c := g.MustAddType(&EntityType{Name: "C"})
	require.NoError(g.AddRelation(a, "b", b, O2O))
	require.NoError(g.AddRelation(a, "c", c, M2O))
	require.NoError(g.AddRelation(b, "c", c, M2M))

	names := make([]string, 0, 2)
	for _, f := range a.Relations() {
		names = append(names, f.Name)
	}
	require.Equal([]string{"b", "c"}, names)

	// Reverse accessors appear on the related type in the order their
	// forward counterparts were declared.
	names = names[:0]
	for _, f := range c.Relations() {
		names = append(names, f.Name)
	}
	require.Equal([]string{"as", "bs"}, names)
}
