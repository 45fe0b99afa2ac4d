package collection

import (
	"github.com/mattsolo1/grove-guru/pkg/logging"
	"github.com/mattsolo1/grove-guru/pkg/models"
	"github.com/mattsolo1/grove-guru/pkg/tree"
)

// BranchAnalysis describes the shape of one top-level branch.
type BranchAnalysis struct {
	// Height is the deepest level holding a container, counting the branch
	// root as 1.
	Height int
	// FirstLevelCard is the path of the first card directly below the branch
	// root, or "" if there is none.
	FirstLevelCard string
}

// TypifyTree assigns a container type to every container in the tree. Each
// direct child of root is typed on its own, starting from preferred and
// changing only as far as its shape requires. Cards directly below root are
// left alone.
func TypifyTree(root *tree.Node, preferred models.ContainerType, log *logging.Logger) error {
	if !preferred.Valid() {
		return tree.NewError(tree.InvalidContainerConfiguration, "", "unknown preferred container type %d", int(preferred))
	}
	if preferred == models.ContainerBoardSection {
		return tree.NewError(tree.InvalidContainerConfiguration, "",
			"%s cannot be used as the top-level container type, board sections must live inside a board", preferred)
	}

	for _, child := range root.Children() {
		if !child.Node.IsContainer() {
			continue
		}
		log.Debugf("Typifying branch %s", child.Name)
		log.Indent()
		topType, err := AnalyzeBranch(child.Node, child.Name, preferred, log)
		if err == nil {
			err = TypifyBranch(child.Node, topType)
		}
		log.Unindent()
		if err != nil {
			return err
		}
	}
	return nil
}

// Analyze measures the branch rooted at node, which is stored under name.
func Analyze(node *tree.Node, name string) (BranchAnalysis, error) {
	analysis := BranchAnalysis{Height: 1}
	err := tree.Traverse(node).WithPath(name).WithDepth(1).Walk(func(n *tree.Node, _ string, st *tree.State) error {
		switch {
		case n.IsContainer():
			if st.Depth > models.ContainerLevels {
				return tree.NewError(tree.InvalidContainerConfiguration, st.Path,
					"container is too deep, Guru supports at most %d levels of nesting", models.ContainerLevels)
			}
			analysis.Height = max(analysis.Height, st.Depth)
		case n.IsCard():
			if st.Depth == 2 && analysis.FirstLevelCard == "" {
				analysis.FirstLevelCard = st.Path
			}
		}
		return nil
	})
	return analysis, err
}

// AnalyzeBranch picks the container type of a branch root.
func AnalyzeBranch(node *tree.Node, name string, preferred models.ContainerType, log *logging.Logger) (models.ContainerType, error) {
	analysis, err := Analyze(node, name)
	if err != nil {
		return models.ContainerUnset, err
	}
	log.Tracef("Branch %s has height %d", name, analysis.Height)

	topType := preferred
	if analysis.FirstLevelCard != "" && topType == models.ContainerBoardGroup {
		if analysis.Height == models.ContainerLevels {
			return models.ContainerUnset, cardInGroupError(name, analysis)
		}
		topType = models.ContainerBoard
	}

	if topType.SupportedDepth() < analysis.Height {
		if t, ok := models.ContainerTypeForDepth(analysis.Height - 1); ok {
			topType = t
		}
	}

	// A branch that needs every level cannot hold cards at its root either.
	if topType == models.ContainerBoardGroup && analysis.FirstLevelCard != "" {
		return models.ContainerUnset, cardInGroupError(name, analysis)
	}

	if topType != preferred {
		log.Warnf("Branch %s cannot be a %s, using %s instead", name, preferred, topType)
	}
	return topType, nil
}

// TypifyBranch sets node to topType and every nested container one level
// further down the container types.
func TypifyBranch(node *tree.Node, topType models.ContainerType) error {
	if err := node.SetContainerType(topType); err != nil {
		return err
	}
	return tree.Traverse(node).Walk(func(n *tree.Node, _ string, st *tree.State) error {
		if !n.IsContainer() {
			return nil
		}
		t, ok := models.ContainerTypeForLevel(topType.Level() + st.Depth)
		if !ok {
			return tree.NewError(tree.InvalidContainerConfiguration, st.Path,
				"no container type is nested %d levels below a %s", st.Depth, topType)
		}
		return n.SetContainerType(t)
	})
}

func cardInGroupError(name string, analysis BranchAnalysis) error {
	return tree.NewError(tree.InvalidContainerConfiguration, name,
		"%s contains the card %s directly and has %d levels of containers; a board group cannot hold cards, "+
			"move the card into a subdirectory or flatten the branch",
		name, analysis.FirstLevelCard, analysis.Height)
}
