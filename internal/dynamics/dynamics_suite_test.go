package dynamics_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDynamics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dynamics Suite")
}
