package client

import (
	"errors"
	"testing"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/runtime/schema"

	. "github.com/onsi/gomega"
)

func TestIsPermissionError(t *testing.T) {
	g := NewWithT(t)

	forbidden := apierrors.NewForbidden(
		schema.GroupResource{Resource: "nodes"}, "", errors.New("RBAC denied"),
	)
	unauthorized := apierrors.NewUnauthorized("token expired")

	g.Expect(IsPermissionError(forbidden)).To(BeTrue())
	g.Expect(IsPermissionError(unauthorized)).To(BeTrue())
	g.Expect(IsPermissionError(errors.New("connection reset"))).To(BeFalse())
	g.Expect(IsPermissionError(nil)).To(BeFalse())
}

func TestIsSoftError(t *testing.T) {
	g := NewWithT(t)

	forbidden := apierrors.NewForbidden(
		schema.GroupResource{Resource: "cephclusters"}, "", errors.New("RBAC denied"),
	)
	notFound := apierrors.NewNotFound(
		schema.GroupResource{Group: "ceph.rook.io", Resource: "cephclusters"}, "rook-ceph",
	)
	noMatch := &meta.NoKindMatchError{
		GroupKind: schema.GroupKind{Group: "snapshot.storage.k8s.io", Kind: "VolumeSnapshot"},
	}

	g.Expect(IsSoftError(forbidden)).To(BeTrue())
	g.Expect(IsSoftError(notFound)).To(BeTrue())
	g.Expect(IsSoftError(noMatch)).To(BeTrue())

	g.Expect(IsSoftError(errors.New("connection reset"))).To(BeFalse())
	g.Expect(IsSoftError(apierrors.NewTimeoutError("too slow", 1))).To(BeFalse())
	g.Expect(IsSoftError(nil)).To(BeFalse())
}
